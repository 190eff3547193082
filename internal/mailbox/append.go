package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/google/uuid"

	"github.com/emurenMRz/mpbody/internal/mpbody"
)

const messageIDHost = "mpbody"

// ErrInvalidHeader is returned for a header that would break the header block.
var ErrInvalidHeader = errors.New("invalid header")

// Envelope carries the RFC 5322 header fields written in front of a body.
type Envelope struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
}

// Append builds m and appends it as a new message to the named mailbox,
// creating the file if needed. It returns the generated Message-ID.
// The message is written with a single write so a failure does not
// leave a truncated entry behind.
func Append(dir, name string, env Envelope, m *mpbody.Message) (string, error) {
	from, err := mail.ParseAddress(env.From)
	if err != nil {
		return "", fmt.Errorf("invalid From address: %w", err)
	}

	for _, rcpt := range env.To {
		if strings.ContainsAny(rcpt, "\r\n") {
			return "", fmt.Errorf("%w: line break in recipient %q", ErrInvalidHeader, rcpt)
		}
	}

	body, headers, err := m.Build()
	if err != nil {
		return "", err
	}
	for _, h := range headers {
		if err := checkHeader(h); err != nil {
			return "", err
		}
	}

	date := env.Date
	if date.IsZero() {
		date = time.Now()
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate message id: %w", err)
	}
	messageID := fmt.Sprintf("<%s@%s>", id, messageIDHost)

	var msg bytes.Buffer
	writeField(&msg, "From", from.String())
	if len(env.To) > 0 {
		writeField(&msg, "To", strings.Join(env.To, ", "))
	}
	if env.Subject != "" {
		writeField(&msg, "Subject", mime.QEncoding.Encode("utf-8", env.Subject))
	}
	writeField(&msg, "Date", date.Format(time.RFC1123Z))
	writeField(&msg, "Message-ID", messageID)
	writeField(&msg, "MIME-Version", "1.0")
	for _, h := range headers {
		writeField(&msg, h.Name, h.Value)
	}
	msg.WriteString("\r\n")
	msg.Write(body)
	msg.WriteString("\r\n")

	mboxPath, err := Path(dir, name)
	if err != nil {
		return "", err
	}

	var entry bytes.Buffer
	mw := mbox.NewWriter(&entry)
	w, err := mw.CreateMessage(from.Address, date)
	if err != nil {
		return "", fmt.Errorf("create mbox message: %w", err)
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		return "", fmt.Errorf("write mbox message: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close mbox message: %w", err)
	}

	f, err := os.OpenFile(mboxPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o660)
	if err != nil {
		return "", fmt.Errorf("open mbox: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(entry.Bytes()); err != nil {
		return "", fmt.Errorf("write mbox: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close mbox: %w", err)
	}
	return messageID, nil
}

func writeField(b *bytes.Buffer, name, value string) {
	b.WriteString(name + ": " + value + "\r\n")
}

// checkHeader rejects names that are not RFC 5322 field names and values
// that would start a new line.
func checkHeader(h mpbody.Header) error {
	if h.Name == "" || strings.ContainsRune(h.Name, ':') || strings.IndexFunc(h.Name, isSpaceOrControl) >= 0 {
		return fmt.Errorf("%w: name %q", ErrInvalidHeader, h.Name)
	}
	if strings.ContainsAny(h.Value, "\r\n") {
		return fmt.Errorf("%w: line break in %s", ErrInvalidHeader, h.Name)
	}
	return nil
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r >= 0x7f
}
