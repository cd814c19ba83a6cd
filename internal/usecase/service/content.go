package service

import (
	"slices"
	"strings"
	"time"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
	"socialflow-backend/internal/usecase"
)

type Content struct {
	contentRepo repo.Content
	orgRepo     repo.Organization
}

func NewContent(contentRepo repo.Content, orgRepo repo.Organization) usecase.Content {
	return &Content{
		contentRepo: contentRepo,
		orgRepo:     orgRepo,
	}
}

func (c *Content) checkAccess(organizationID, userID int) error {
	roles, err := c.orgRepo.GetOrganizationUserRoles(organizationID, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(roles, repo.AdminRole) && !slices.Contains(roles, repo.PostsRole) {
		return usecase.ErrUserForbidden
	}
	return nil
}

func (c *Content) AddContent(request *entity.AddContentRequest) (int, error) {
	if err := request.IsValid(); err != nil {
		return 0, err
	}
	if err := c.checkAccess(request.OrganizationID, request.UserID); err != nil {
		return 0, err
	}

	contentItemID, err := c.contentRepo.AddContentItem(&entity.ContentItem{
		OrganizationID: request.OrganizationID,
		Title:          request.Title,
		Status:         "draft",
		CreatedByID:    request.UserID,
	})
	if err != nil {
		return 0, err
	}
	_, err = c.contentRepo.AddContentVersion(&entity.ContentVersion{
		ContentItemID: contentItemID,
		Body:          request.Body,
		Metadata:      request.Metadata,
	})
	if err != nil {
		return 0, err
	}
	return contentItemID, nil
}

func (c *Content) EditContent(request *entity.EditContentRequest) (int, error) {
	if strings.TrimSpace(request.Body) == "" {
		return 0, usecase.ErrContentBodyRequired
	}
	item, err := c.contentRepo.GetContentItem(request.ContentItemID)
	if err != nil {
		return 0, err
	}
	if err := c.checkAccess(item.OrganizationID, request.UserID); err != nil {
		return 0, err
	}
	// редактирование всегда создаёт новую версию: история правок сохраняется
	return c.contentRepo.AddContentVersion(&entity.ContentVersion{
		ContentItemID: request.ContentItemID,
		Body:          request.Body,
		Metadata:      request.Metadata,
	})
}

func (c *Content) GetContent(request *entity.GetContentRequest) (*entity.ContentItem, *entity.ContentVersion, error) {
	item, err := c.contentRepo.GetContentItem(request.ContentItemID)
	if err != nil {
		return nil, nil, err
	}
	if err := c.checkAccess(item.OrganizationID, request.UserID); err != nil {
		return nil, nil, err
	}
	version, err := c.contentRepo.GetCurrentContentVersion(request.ContentItemID)
	if err != nil {
		return nil, nil, err
	}
	return item, version, nil
}

func (c *Content) GetContents(userID int, filter *entity.ContentFilter) ([]*entity.ContentItem, error) {
	if err := c.checkAccess(filter.OrganizationID, userID); err != nil {
		return nil, err
	}
	return c.contentRepo.GetContentItems(filter)
}

func (c *Content) AddSchedule(request *entity.AddScheduleRequest) (int, error) {
	if err := request.IsValid(); err != nil {
		return 0, err
	}
	item, err := c.contentRepo.GetContentItem(request.ContentItemID)
	if err != nil {
		return 0, err
	}
	if err := c.checkAccess(item.OrganizationID, request.UserID); err != nil {
		return 0, err
	}
	platform, _ := entity.ParsePlatform(request.Platform)
	return c.contentRepo.AddSchedule(&entity.Schedule{
		ContentItemID:  request.ContentItemID,
		OrganizationID: item.OrganizationID,
		Platform:       string(platform),
		Status:         entity.ScheduleStatusPending,
		ScheduledAt:    time.Unix(request.ScheduledAt, 0).UTC(),
		MediaURLs:      request.MediaURLs,
		AdaptedBody:    request.AdaptedBody,
	})
}

func (c *Content) GetSchedule(userID int, scheduleID int) (*entity.Schedule, error) {
	schedule, err := c.contentRepo.GetSchedule(scheduleID)
	if err != nil {
		return nil, err
	}
	if err := c.checkAccess(schedule.OrganizationID, userID); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (c *Content) GetSchedules(request *entity.GetContentRequest) ([]*entity.Schedule, error) {
	item, err := c.contentRepo.GetContentItem(request.ContentItemID)
	if err != nil {
		return nil, err
	}
	if err := c.checkAccess(item.OrganizationID, request.UserID); err != nil {
		return nil, err
	}
	return c.contentRepo.GetContentSchedules(request.ContentItemID)
}
