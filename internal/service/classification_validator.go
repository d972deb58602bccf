package service

import (
	"bookgraph_backend/internal/model"
	"fmt"
)

// ValidateClassification 校验一次分类结果的连通性约束，返回违规列表，空列表表示通过。
// 所有计数都在被校验的内存集合上进行，与已持久化的数据无关。
// 注意：这里只校验连通性数量，不校验边的难度方向；跨级/同级/逆向的边
// 由图构建阶段过滤（见 GraphService）。
func ValidateClassification(analyses []model.BookAnalysis) []model.Violation {
	var violations []model.Violation

	// 入边计数：有多少本书把它列进了 nextBooks
	incoming := make(map[string]int, len(analyses))
	for _, a := range analyses {
		for _, next := range a.NextBooks {
			incoming[next]++
		}
	}

	for _, a := range analyses {
		if !a.Difficulty.IsValid() {
			violations = append(violations, model.Violation{
				BookID:  a.ID,
				Message: fmt.Sprintf("invalid difficulty %q", a.Difficulty),
			})
			continue
		}

		in := incoming[a.ID]
		out := len(a.NextBooks)

		switch a.Difficulty {
		case model.LevelBeginner:
			if out < 2 {
				violations = append(violations, model.Violation{
					BookID:  a.ID,
					Message: fmt.Sprintf("beginner book needs at least 2 outgoing connections, has %d", out),
				})
			}
		case model.LevelIntermediate:
			if in < 2 {
				violations = append(violations, model.Violation{
					BookID:  a.ID,
					Message: fmt.Sprintf("intermediate book needs at least 2 incoming connections, has %d", in),
				})
			}
			if out < 2 {
				violations = append(violations, model.Violation{
					BookID:  a.ID,
					Message: fmt.Sprintf("intermediate book needs at least 2 outgoing connections, has %d", out),
				})
			}
		case model.LevelAdvanced:
			if in < 2 {
				violations = append(violations, model.Violation{
					BookID:  a.ID,
					Message: fmt.Sprintf("advanced book needs at least 2 incoming connections, has %d", in),
				})
			}
		}

		// 孤立节点检查
		if a.Difficulty != model.LevelBeginner && in == 0 {
			violations = append(violations, model.Violation{
				BookID:  a.ID,
				Message: "no incoming connections",
			})
		}
		if a.Difficulty != model.LevelAdvanced && out == 0 {
			violations = append(violations, model.Violation{
				BookID:  a.ID,
				Message: "no outgoing connections",
			})
		}
	}

	return violations
}
