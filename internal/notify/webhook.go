// 包 notify：地块选中的宿主回调适配，将选中地块 POST 到外部地址
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"
	"rotational-map/internal/session"
)

const (
	DefaultTimeout = 3 * time.Second
	queueSize      = 128
)

// 文档注释：地块选中 Webhook
// 背景：会话在锁外同步调用回调，回调只入队；后台协程逐个投递，失败只记录日志与计数。
// 约束：队列满时丢弃新事件；投递结果不回传会话
type Webhook struct {
	endpoint string
	client   *http.Client
	queue    chan session.PlotDetail
}

func NewWebhook(endpoint string) *Webhook {
	return &Webhook{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		queue:    make(chan session.PlotDetail, queueSize),
	}
}

// Send：同步投递一次；非 2xx 视为失败
func (w *Webhook) Send(ctx context.Context, d session.PlotDetail) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode plot: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	start := time.Now()
	resp, err := w.client.Do(req)
	metrics.WebhookDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return fmt.Errorf("post plot: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post plot: status %d", resp.StatusCode)
	}
	return nil
}

// Callback：供会话配置使用的非阻塞回调
func (w *Webhook) Callback() func(session.PlotDetail) {
	return func(d session.PlotDetail) {
		select {
		case w.queue <- d:
		default:
			metrics.WebhookFailTotal.Inc()
			logger.L().Warn("plot_webhook_drop", "parcel", d.ID, "reason", "queue_full")
		}
	}
}

// Start：后台投递循环，ctx 结束后退出
func (w *Webhook) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d := <-w.queue:
				if err := w.Send(ctx, d); err != nil {
					metrics.WebhookFailTotal.Inc()
					logger.L().Warn("plot_webhook_error", "parcel", d.ID, "err", err)
					continue
				}
				logger.L().Debug("plot_webhook_ok", "parcel", d.ID)
			}
		}
	}()
}
