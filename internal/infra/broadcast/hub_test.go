package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

func TestHub_FanOut(t *testing.T) {
	h := NewHub()

	var a, b []domain.TimerEventType
	h.Subscribe(func(ev domain.TimerEvent) { a = append(a, ev.Type) })
	h.Subscribe(func(ev domain.TimerEvent) { b = append(b, ev.Type) })

	h.Publish(domain.TimerEvent{Type: domain.TimerStart})
	h.Publish(domain.TimerEvent{Type: domain.TimerStop})

	assert.Equal(t, []domain.TimerEventType{domain.TimerStart, domain.TimerStop}, a)
	assert.Equal(t, []domain.TimerEventType{domain.TimerStart, domain.TimerStop}, b)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()

	var got int
	unsub := h.Subscribe(func(domain.TimerEvent) { got++ })

	h.Publish(domain.TimerEvent{Type: domain.TimerTick})
	unsub()
	h.Publish(domain.TimerEvent{Type: domain.TimerTick})

	assert.Equal(t, 1, got)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	h := NewHub()
	assert.NotPanics(t, func() {
		h.Publish(domain.TimerEvent{Type: domain.TimerTick})
	})
}
