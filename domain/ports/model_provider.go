package ports

import "context"

// ModelProvider - backend สร้างข้อความหนึ่งตัวใน provider cascade
// Generate ต้อง respect ctx deadline และคืน error เมื่อ transport/auth/quota ล้มเหลว
type ModelProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
