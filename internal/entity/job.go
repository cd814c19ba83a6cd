package entity

import "time"

// PublishJob описывает задание на публикацию в очереди. Создаётся планировщиком
// по одной штуке на каждую наступившую запись расписания.
type PublishJob struct {
	ID             string    `json:"id" msgpack:"id"`
	ScheduleID     int       `json:"schedule_id" msgpack:"schedule_id"`
	ContentItemID  int       `json:"content_item_id" msgpack:"content_item_id"`
	OrganizationID int       `json:"organization_id" msgpack:"organization_id"`
	Platform       string    `json:"platform" msgpack:"platform"`
	MediaURLs      []string  `json:"media_urls" msgpack:"media_urls"`
	AdaptedBody    *string   `json:"adapted_body,omitempty" msgpack:"adapted_body"`
	// Attempt нумерует попытки с единицы; backoff между попытками живёт не в
	// задании, а в scheduled_at записи расписания
	Attempt   int       `json:"attempt" msgpack:"attempt"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// ToPublishRequest собирает запрос диспетчеру из задания очереди.
func (j *PublishJob) ToPublishRequest() *PublishRequest {
	req := &PublishRequest{
		ContentItemID:  j.ContentItemID,
		Platform:       j.Platform,
		ScheduleID:     j.ScheduleID,
		OrganizationID: j.OrganizationID,
		MediaURLs:      j.MediaURLs,
	}
	if j.AdaptedBody != nil {
		req.AdaptedContent = &PublishContent{Body: *j.AdaptedBody}
	}
	return req
}
