package mocks

import (
	"imagevault/internal/models"
)

type ImageStoreMock struct {
	GetAllFunc    func() []models.GeneratedImage
	SaveFunc      func(data []byte, prompt string) (*models.GeneratedImage, error)
	DeleteFunc    func(image models.GeneratedImage) error
	ReadAssetFunc func(image models.GeneratedImage) ([]byte, error)
}

func (m *ImageStoreMock) GetAll() []models.GeneratedImage {
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	return nil
}

func (m *ImageStoreMock) Save(data []byte, prompt string) (*models.GeneratedImage, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(data, prompt)
	}
	return nil, nil
}

func (m *ImageStoreMock) Delete(image models.GeneratedImage) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(image)
	}
	return nil
}

func (m *ImageStoreMock) ReadAsset(image models.GeneratedImage) ([]byte, error) {
	if m.ReadAssetFunc != nil {
		return m.ReadAssetFunc(image)
	}
	return nil, nil
}
