package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"

	"net"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

const (
	publishJobsTopic = "publish-jobs"
	numPartitions    = 3
)

// TopicConfig содержит настройки для создания топика
type TopicConfig struct {
	NumPartitions     int
	ReplicationFactor int
}

type PublishQueueKafkaRepository struct {
	writer      *kafka.Writer
	brokers     []string
	groupID     string
	topicConfig TopicConfig
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(ctx context.Context, brokers []string, topic string, config TopicConfig) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	partitions, err := conn.ReadPartitions(topic)
	if err != nil && !errors.Is(err, kafka.UnknownTopicOrPartition) {
		return err
	}
	if len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	})
}

// getMaxReplicationFactor определяет максимально возможный фактор репликации
// на основе количества доступных брокеров
func getMaxReplicationFactor(ctx context.Context, brokers []string, desiredFactor int) int {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", brokers[0])
	if err != nil {
		return min(len(brokers), desiredFactor)
	}
	defer func() { _ = conn.Close() }()

	brokerMetadata, err := conn.Brokers()
	if err != nil || len(brokerMetadata) == 0 {
		return min(len(brokers), desiredFactor)
	}
	return min(len(brokerMetadata), desiredFactor)
}

func NewPublishQueueKafkaRepository(brokers []string, groupID string) (repo.PublishQueue, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topicConfig := TopicConfig{
		NumPartitions:     numPartitions,
		ReplicationFactor: getMaxReplicationFactor(ctx, brokers, 3),
	}
	if err := createTopicIfNotExists(ctx, brokers, publishJobsTopic, topicConfig); err != nil {
		return nil, fmt.Errorf("failed to create publish jobs topic: %w", err)
	}

	return &PublishQueueKafkaRepository{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    publishJobsTopic,
			Balancer: &kafka.LeastBytes{},
		},
		brokers:     brokers,
		groupID:     groupID,
		topicConfig: topicConfig,
	}, nil
}

func (r *PublishQueueKafkaRepository) EnqueuePublishJob(ctx context.Context, job *entity.PublishJob) error {
	b, err := msgpack.Marshal(job)
	if err != nil {
		return err
	}
	// ключом служит айди расписания: повторные попытки одного расписания попадают в одну партицию
	// и обрабатываются по порядку
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(job.ScheduleID)),
		Value: b,
	})
}

func (r *PublishQueueKafkaRepository) SubscribePublishJobs(ctx context.Context) (<-chan *entity.PublishJob, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  r.brokers,
		Topic:    publishJobsTopic,
		GroupID:  r.groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	ch := make(chan *entity.PublishJob)
	go func() {
		defer close(ch)
		defer func() { _ = reader.Close() }()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				return
			}
			var job entity.PublishJob
			if err := msgpack.Unmarshal(m.Value, &job); err == nil {
				select {
				case ch <- &job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
