package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"traffic-report/be/metrics"
	"traffic-report/be/models"
	"traffic-report/be/rabbitmq"

	"go.uber.org/zap"
)

const ingestTimeout = 30 * time.Second

type AnalysisIngester interface {
	IngestAnalysisResult(ctx context.Context, result models.AnalysisResult) (*models.IncidentLog, error)
}

// NewAnalysisCallback decodes analysis results delivered over RabbitMQ and
// records them as incident logs. Undecodable payloads and rejected results
// are not retried.
func NewAnalysisCallback(ingester AnalysisIngester, log *zap.Logger) rabbitmq.CallbackFunc {
	return func(ctx context.Context, msg *rabbitmq.Message) error {
		var result models.AnalysisResult
		if err := json.Unmarshal(msg.Body, &result); err != nil {
			metrics.IngestTotal.WithLabelValues("amqp", metrics.ResultMalformed).Inc()
			return rabbitmq.Permanent(fmt.Errorf("failed to decode analysis result: %w", err))
		}

		ctx, cancel := context.WithTimeout(ctx, ingestTimeout)
		defer cancel()

		incident, err := ingester.IngestAnalysisResult(ctx, result)
		if err != nil {
			if IsRejection(err) {
				metrics.IngestTotal.WithLabelValues("amqp", metrics.ResultRejected).Inc()
				return rabbitmq.Permanent(err)
			}
			metrics.IngestTotal.WithLabelValues("amqp", metrics.ResultFailed).Inc()
			return err
		}

		metrics.IngestTotal.WithLabelValues("amqp", metrics.ResultStored).Inc()
		log.Info("analysis result stored",
			zap.Int("incident_log", incident.ID),
			zap.String("serial_no", incident.SerialNo),
			zap.String("violation_type", incident.ViolationType))
		return nil
	}
}
