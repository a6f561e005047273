package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/signboard/internal/embed"
)

const probeTimeout = 10 * time.Second

// DefaultProbeURL is YouTube's oEmbed endpoint. It answers 2xx only for
// videos that exist and allow embedding.
const DefaultProbeURL = "https://www.youtube.com/oembed"

// Prober checks whether an embed source can be played.
type Prober interface {
	Probe(ctx context.Context, src string) error
}

// OEmbedProber probes a source against an oEmbed endpoint.
type OEmbedProber struct {
	Client    *http.Client
	Endpoint  string
	UserAgent string
}

func (p *OEmbedProber) Probe(ctx context.Context, src string) error {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultProbeURL
	}
	q := url.Values{}
	q.Set("url", embed.WatchURL(src))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("oembed: status %d", resp.StatusCode)
	}
	return nil
}

// videoFrame is the terminal stand-in for the embedded player. Loads are
// queued and turned into probe commands by the model after each sync.
type videoFrame struct {
	pending []string
	loads   int
	closed  bool
}

var _ embed.Player = (*videoFrame)(nil)

func (f *videoFrame) Load(src string) {
	f.loads++
	f.pending = append(f.pending, src)
}

func (f *videoFrame) Close() {
	f.closed = true
	f.pending = nil
}

func (f *videoFrame) drain() []string {
	out := f.pending
	f.pending = nil
	return out
}

// newFrame is handed to embed.NewManager; it remembers the live frame.
func (m *BoardModel) newFrame() embed.Player {
	m.frame = &videoFrame{}
	return m.frame
}

// probeCmds turns queued frame loads into commands reporting back as
// embedLoadedMsg or embedErrorMsg.
func (m *BoardModel) probeCmds() []tea.Cmd {
	if m.frame == nil || m.frame.closed {
		return nil
	}
	var cmds []tea.Cmd
	for _, src := range m.frame.drain() {
		cmds = append(cmds, probeCmd(m.prober, src))
	}
	return cmds
}

func probeCmd(p Prober, src string) tea.Cmd {
	if p == nil {
		return func() tea.Msg { return embedLoadedMsg{src: src} }
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		if err := p.Probe(ctx, src); err != nil {
			return embedErrorMsg{src: src, err: err}
		}
		return embedLoadedMsg{src: src}
	}
}
