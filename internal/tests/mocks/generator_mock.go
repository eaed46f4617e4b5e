package mocks

import "context"

type GeneratorMock struct {
	GenerateFunc func(ctx context.Context, prompt, size string) ([]byte, error)
	Calls        int
}

func (m *GeneratorMock) Generate(ctx context.Context, prompt, size string) ([]byte, error) {
	m.Calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, size)
	}
	return nil, nil
}
