package service

import (
	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type Metrics struct {
	metricsRepo repo.Metrics
	contentRepo repo.Content
	orgRepo     repo.Organization
}

func NewMetrics(metricsRepo repo.Metrics, contentRepo repo.Content, orgRepo repo.Organization) usecase.Metrics {
	return &Metrics{
		metricsRepo: metricsRepo,
		contentRepo: contentRepo,
		orgRepo:     orgRepo,
	}
}

func (m *Metrics) RecordPostMetrics(metrics *entity.PostMetrics) error {
	_, err := m.metricsRepo.AddPostMetrics(metrics)
	return err
}

func (m *Metrics) GetContentMetrics(request *entity.ContentMetricsRequest) ([]*entity.PostMetrics, error) {
	item, err := m.contentRepo.GetContentItem(request.ContentItemID)
	if err != nil {
		return nil, err
	}
	roles, err := m.orgRepo.GetOrganizationUserRoles(item.OrganizationID, request.UserID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, usecase.ErrUserForbidden
	}
	return m.metricsRepo.GetPostMetrics(request.ContentItemID, request.Platform)
}
