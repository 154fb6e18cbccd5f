package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// PublisherMetrics receives NATS instrumentation. Nil disables it.
type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	NATSSetConnected(connected bool)
}

// ScanMessage is the event emitted for every processed scan.
type ScanMessage struct {
	BusNumber string    `json:"busNumber"`
	RouteCode string    `json:"routeCode"`
	RouteName string    `json:"routeName"`
	StudentID string    `json:"studentId"`
	ScanType  string    `json:"scanType"`
	Points    int       `json:"points"`
	CO2Grams  float64   `json:"co2Grams"`
	ScannedAt time.Time `json:"scannedAt"`
}

// NATSPublisher streams scan events to a NATS server.
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
	metrics       PublisherMetrics
}

func NewNATSPublisher(url, subjectPrefix string, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("uidelink-backend"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			slog.Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			slog.Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			slog.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix, metrics: m}, nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// PublishScan publishes the message on <prefix>.<busNumber>.
func (p *NATSPublisher) PublishScan(msg ScanMessage) error {
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, subjectToken(msg.BusNumber))
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
