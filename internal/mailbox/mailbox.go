package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-imap/utf7"
	"github.com/emersion/go-mbox"
)

// ErrNotFound is returned for a missing mailbox or message index.
var ErrNotFound = errors.New("not found")

// Summary describes one stored message.
type Summary struct {
	ID          int    `json:"id"`
	From        string `json:"from"`
	Date        string `json:"date"`
	Subject     string `json:"subject"`
	ContentType string `json:"contentType"`
	// Timestamp is parsed Date used for sorting. Not exported to JSON.
	Timestamp time.Time `json:"-"`
}

// Path maps a UTF-8 mailbox name to its IMAP-UTF7 encoded file under dir.
func Path(dir, name string) (string, error) {
	encoded, err := utf7.Encoding.NewEncoder().String(name)
	if err != nil {
		return "", fmt.Errorf("encode mailbox name %q: %w", name, err)
	}
	if !filepath.IsLocal(encoded) || strings.ContainsAny(encoded, `/\`) {
		return "", fmt.Errorf("invalid mailbox name %q", name)
	}
	return filepath.Join(dir, encoded), nil
}

// List returns the decoded names of all mailbox files in dir.
func List(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	mailboxes := []string{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		// Files on disk are IMAP-UTF7 encoded; decode to UTF-8
		decodedName, err := utf7.Encoding.NewDecoder().String(file.Name())
		if err != nil {
			log.Printf("Failed to decode mailbox filename %s: %v", file.Name(), err)
			continue
		}
		mailboxes = append(mailboxes, decodedName)
	}
	return mailboxes, nil
}

// Messages lists the messages of a mailbox, newest first.
func Messages(dir, name string) ([]Summary, error) {
	summaries := []Summary{}
	err := each(dir, name, func(i int, msg *mail.Message) bool {
		header := msg.Header
		decoder := &mime.WordDecoder{}
		subject, err := decoder.DecodeHeader(header.Get("Subject"))
		if err != nil {
			subject = header.Get("Subject")
		}
		dateStr := header.Get("Date")
		ts, _ := mail.ParseDate(dateStr)
		summaries = append(summaries, Summary{
			ID:          i,
			From:        header.Get("From"),
			Date:        dateStr,
			Subject:     subject,
			ContentType: header.Get("Content-Type"),
			Timestamp:   ts,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	// sort by Timestamp descending (newest first). Zero timestamps go last.
	sort.SliceStable(summaries, func(a, b int) bool {
		ta := summaries[a].Timestamp
		tb := summaries[b].Timestamp
		if ta.Equal(tb) {
			return summaries[a].ID < summaries[b].ID
		}
		if ta.IsZero() {
			return false
		}
		if tb.IsZero() {
			return true
		}
		return ta.After(tb)
	})
	return summaries, nil
}

// Open returns the message at index id. The body is fully buffered.
func Open(dir, name string, id int) (*mail.Message, error) {
	var selected *mail.Message
	err := each(dir, name, func(i int, msg *mail.Message) bool {
		if i != id {
			return true
		}
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			log.Printf("Failed to read message %d in %s: %v", i, name, err)
			return false
		}
		msg.Body = bytes.NewReader(body)
		selected = msg
		return false
	})
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: message %d in %s", ErrNotFound, id, name)
	}
	return selected, nil
}

// each walks the messages of a mailbox until fn returns false.
// Messages whose headers cannot be parsed are skipped but keep their index.
func each(dir, name string, fn func(int, *mail.Message) bool) error {
	mboxPath, err := Path(dir, name)
	if err != nil {
		return err
	}
	f, err := os.Open(mboxPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: mailbox %s", ErrNotFound, name)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	reader := mbox.NewReader(f)
	for i := 0; ; i++ {
		r, err := reader.NextMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read message %d in %s: %w", i, name, err)
		}
		msg, err := mail.ReadMessage(r)
		if err != nil {
			log.Printf("Failed to parse message headers in %s: %v", name, err)
			continue
		}
		if !fn(i, msg) {
			return nil
		}
	}
}
