package worker

// alerta_stock.go
// Processes low-stock alert jobs: dedupes per product via a Redis key with
// TTL (so a product hovering at its minimum does not flood the inbox) and
// sends the email through the circuit breaker.

import (
	"context"
	"fmt"
	"time"

	"github.com/Shoelmaxi/floreria-web/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// alertaDedupTTL suppresses repeat alerts for the same product.
const alertaDedupTTL = 6 * time.Hour

type AlertaProcessor struct {
	rdb        *redis.Client
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	alertEmail string
}

func NewAlertaProcessor(rdb *redis.Client, mailer *infra.Mailer, cb *infra.CircuitBreaker, alertEmail string) *AlertaProcessor {
	return &AlertaProcessor{rdb: rdb, mailer: mailer, cb: cb, alertEmail: alertEmail}
}

// Process sends one low-stock alert. Returns nil on dedup suppression so
// the job is not retried.
func (p *AlertaProcessor) Process(ctx context.Context, payload AlertaStockPayload) error {
	if p.alertEmail == "" {
		return nil
	}

	dedupKey := "alerta:enviada:" + payload.ProductoID
	ok, err := p.rdb.SetNX(ctx, dedupKey, "1", alertaDedupTTL).Result()
	if err == nil && !ok {
		log.Debug().Str("producto", payload.Nombre).Msg("stock alert suppressed (recently sent)")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Nombre)
	body := fmt.Sprintf(
		"El producto %s quedó en %d unidades (mínimo configurado: %d).\n\nRegistrá un abastecimiento para reponerlo.",
		payload.Nombre, payload.Stock, payload.StockMinimo,
	)

	sendErr := p.cb.Execute(func() error {
		return p.mailer.SendAlerta(p.alertEmail, subject, body)
	})
	if sendErr != nil {
		// Release the dedup key so the retry is not suppressed.
		_ = p.rdb.Del(ctx, dedupKey).Err()
		return sendErr
	}
	return nil
}
