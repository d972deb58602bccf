package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 头像上传相关常量
const (
	MimeImage     = "image/"
	MaxAvatarSize = 5 << 20 // 5MB
)
