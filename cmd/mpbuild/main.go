package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/emurenMRz/mpbody/internal/mailbox"
	"github.com/emurenMRz/mpbody/internal/mpbody"
	"github.com/emurenMRz/mpbody/internal/transport"
)

func main() {
	var (
		parts   partList
		headers headerList
	)
	var (
		mode     = flag.String("mode", "build", "Operation mode: build, post, archive")
		subtype  = flag.String("type", mpbody.FormData, "Multipart subtype: form-data, mixed, related")
		boundary = flag.String("boundary", "", "Boundary token (random when empty)")
		outPath  = flag.String("out", "", "Output file path (for build mode, default stdout)")
		showHdrs = flag.Bool("headers", false, "Print computed headers to stderr (for build mode)")
		url      = flag.String("url", "", "Target URL (for post mode)")
		timeout  = flag.Duration("timeout", 30*time.Second, "Request timeout (for post mode)")
		mboxDir  = flag.String("mbox", ".", "Directory of mbox files (for archive mode)")
		mboxName = flag.String("mailbox", "", "Mailbox name (for archive mode)")
		from     = flag.String("from", "", "From address (for archive mode)")
		to       = flag.String("to", "", "Comma separated recipients (for archive mode)")
		subject  = flag.String("subject", "", "Subject (for archive mode)")
	)
	flag.Func("field", "Form field `name=value` (repeatable, form-data only)", parts.field)
	flag.Func("data", "Raw part including its own headers (repeatable)", parts.data)
	flag.Func("file", "File part `name=path[;mime[;remote]]` (repeatable)", parts.file)
	flag.Func("header", "Extra header `Name: value` (repeatable)", headers.add)
	flag.Parse()

	m, err := newMessage(*subtype, *boundary, headers, parts)
	if err != nil {
		log.Fatal("Error: ", err)
	}

	switch *mode {
	case "build":
		if err := buildMessage(m, *outPath, *showHdrs); err != nil {
			log.Fatal("Error: ", err)
		}
	case "post":
		if *url == "" {
			log.Fatal("Error: -url is required for post mode")
		}
		if err := postMessage(m, *url, *timeout); err != nil {
			log.Fatal("Error: ", err)
		}
	case "archive":
		if *mboxName == "" || *from == "" {
			log.Fatal("Error: -mailbox and -from are required for archive mode")
		}
		env := mailbox.Envelope{From: *from, Subject: *subject, Date: time.Now()}
		if *to != "" {
			for _, rcpt := range strings.Split(*to, ",") {
				env.To = append(env.To, strings.TrimSpace(rcpt))
			}
		}
		messageID, err := mailbox.Append(*mboxDir, *mboxName, env, m)
		if err != nil {
			log.Fatal("Error: ", err)
		}
		log.Printf("Appended %s to %s", messageID, *mboxName)
	default:
		log.Fatal("Error: Unknown mode. Use build, post, or archive")
	}
}

func buildMessage(m *mpbody.Message, outPath string, showHeaders bool) error {
	body, headers, err := m.Build()
	if err != nil {
		return err
	}
	if showHeaders {
		for _, h := range headers {
			fmt.Fprintf(os.Stderr, "%s: %s\n", h.Name, h.Value)
		}
	}
	if outPath == "" {
		_, err = os.Stdout.Write(body)
		return err
	}
	return os.WriteFile(outPath, body, 0o644)
}

func postMessage(m *mpbody.Message, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := transport.Post(ctx, nil, url, m)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Printf("POST %s: %s", url, resp.Status)
	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
