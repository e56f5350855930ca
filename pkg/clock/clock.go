package clock

import "time"

// Clock abstrae la fuente de tiempo para que los casos de uso sean testeables.
// Toda marca temporal que escribe el núcleo (lotes, cambios, transferencias) sale de aquí.
type Clock interface {
	Now() time.Time
}

// System reloj real del sistema (UTC).
type System struct{}

// Now devuelve la hora actual en UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed reloj congelado para tests; Advance lo mueve manualmente.
type Fixed struct {
	t time.Time
}

// NewFixed construye un reloj congelado en t.
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now devuelve el instante congelado.
func (f *Fixed) Now() time.Time { return f.t }

// Advance mueve el reloj d hacia adelante y devuelve el nuevo instante.
func (f *Fixed) Advance(d time.Duration) time.Time {
	f.t = f.t.Add(d)
	return f.t
}

var _ Clock = System{}
var _ Clock = (*Fixed)(nil)
