package gateway

import (
	"context"
	"sync"

	"github.com/jhoicas/Reabasto-api/internal/application/messaging"
	"github.com/jhoicas/Reabasto-api/internal/domain/entity"
)

var _ messaging.Gateway = (*Recorder)(nil)

// Sent un mensaje capturado por el Recorder.
type Sent struct {
	Phone  string
	Key    messaging.MessageKey
	Params map[string]string
	Text   string
}

// Recorder gateway de prueba: captura los mensajes en orden de envío en vez
// de entregarlos. Para inyectar en tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

// NewRecorder construye el recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(ctx context.Context, to *entity.Contact, key messaging.MessageKey, params map[string]string) {
	r.record(to.Phone, key, params)
}

func (r *Recorder) SendRaw(ctx context.Context, phone string, key messaging.MessageKey, params map[string]string) {
	r.record(phone, key, params)
}

func (r *Recorder) record(phone string, key messaging.MessageKey, params map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{
		Phone:  phone,
		Key:    key,
		Params: params,
		Text:   messaging.Render(key, params),
	})
}

// Messages copia de los mensajes capturados.
func (r *Recorder) Messages() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

// To mensajes capturados dirigidos a un teléfono.
func (r *Recorder) To(phone string) []Sent {
	var out []Sent
	for _, s := range r.Messages() {
		if s.Phone == phone {
			out = append(out, s)
		}
	}
	return out
}

// Reset descarta lo capturado.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
