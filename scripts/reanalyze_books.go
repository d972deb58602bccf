// 手动触发图书重新分析脚本
//
// 对指定主题（缺省为全部主题）重新检索候选图书，并分批分析尚未入库的部分。
// 适合首次部署或图书目录更新后补齐知识图谱数据。
//
// 用法: go run scripts/reanalyze_books.go [-topic 主题ID]

package main

import (
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/service"
	"bookgraph_backend/pkg/database"
	"bookgraph_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	topicID := flag.String("topic", "", "只处理指定主题 ID，留空处理全部主题")
	flag.Parse()

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis 连接失败: %v", err)
	}

	bookRepo := repository.NewBookRepository(db)
	skillMapRepo := repository.NewSkillMapRepository(db)
	topicRepo := repository.NewTopicRepository(db)

	search := service.NewBookSearchService(cfg.Books, rdb)
	ai := service.NewAIService(cfg.AI)
	classifier := service.NewClassifierService(ai)
	bookService := service.NewBookService(search, classifier, bookRepo, skillMapRepo, topicRepo)

	ctx := context.Background()

	var topicIDs []string
	if *topicID != "" {
		topicIDs = []string{*topicID}
	} else {
		topics, err := topicRepo.List()
		if err != nil {
			log.Fatalf("读取主题列表失败: %v", err)
		}
		for _, t := range topics {
			topicIDs = append(topicIDs, t.ID)
		}
	}

	log.Printf("开始重新分析 %d 个主题...", len(topicIDs))
	for _, id := range topicIDs {
		report, err := bookService.AnalyzeTopic(ctx, id)
		if err != nil {
			log.Printf("主题 %s 分析失败: %v", id, err)
			continue
		}
		log.Printf("主题 %s: 新增 %d 本, 复用 %d 本, 关系 %d 条",
			id, report.Saved, report.Reused, report.Edges)
	}
	log.Println("完成！")
}
