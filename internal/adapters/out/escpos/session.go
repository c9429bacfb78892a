package escpos

import (
	"context"
	"fmt"
	"io"
	"time"

	"restaurant/internal/core/domain/model/ticket"
)

type deadliner interface {
	SetWriteDeadline(t time.Time) error
}

// session writes encoded tickets to an open device.
type session struct {
	w io.WriteCloser
}

func newSession(w io.WriteCloser) *session {
	return &session{w: w}
}

// Print writes the whole ticket. The context deadline, when set, becomes the write
// deadline of devices that support one.
func (s *session) Print(ctx context.Context, layout ticket.Layout) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := Encode(layout)

	if d, ok := s.w.(deadliner); ok {
		deadline, _ := ctx.Deadline()
		// Character devices may not support deadlines; the write still proceeds.
		_ = d.SetWriteDeadline(deadline)
	}

	n, err := s.w.Write(data)
	if err != nil {
		return fmt.Errorf("write ticket: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("write ticket: %w", io.ErrShortWrite)
	}
	return nil
}

func (s *session) Close() error {
	return s.w.Close()
}
