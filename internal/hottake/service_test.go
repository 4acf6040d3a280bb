package hottake

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Uokoroafor/hot-take-generator/internal/agent"
	"github.com/Uokoroafor/hot-take-generator/internal/config"
	"github.com/Uokoroafor/hot-take-generator/internal/searchquality"
	"github.com/Uokoroafor/hot-take-generator/internal/variantcache"
)

type fakeAgent struct {
	name       string
	configured bool
	take       string
	err        error
	gotContext string
	gotStyle   string
}

func (f *fakeAgent) Name() string     { return f.name }
func (f *fakeAgent) Model() string    { return "fake-model" }
func (f *fakeAgent) Configured() bool { return f.configured }

func (f *fakeAgent) GenerateHotTake(_ context.Context, _, style, searchContext string) (string, error) {
	f.gotStyle = style
	f.gotContext = searchContext
	return f.take, f.err
}

func (f *fakeAgent) StreamHotTake(_ context.Context, _, style, searchContext string, onDelta func(string) error) error {
	f.gotStyle = style
	f.gotContext = searchContext
	if f.err != nil {
		return f.err
	}
	for _, word := range strings.SplitAfter(f.take, " ") {
		if err := onDelta(word); err != nil {
			return err
		}
	}
	return nil
}

type fakeWeb struct{ records []searchquality.Record }

func (f *fakeWeb) Search(context.Context, string, int, bool, string) []searchquality.Record {
	return f.records
}

type fakeNews struct{ records []searchquality.Record }

func (f *fakeNews) SearchRecentNews(context.Context, string, int, int, bool) []searchquality.Record {
	return f.records
}

func newTestService(t *testing.T, agents map[string]agent.Agent, web WebSearcher, news NewsSearcher) *Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := config.Config{SearchTimeout: time.Second}
	store := variantcache.NewMemory(time.Minute, 3)
	svc := NewService(cfg, agents, store, web, news, log)
	svc.newID = func() string { return "test-id" }
	svc.pick = func(int) int { return 0 }
	return svc
}

func soloAgent(f *fakeAgent) map[string]agent.Agent {
	return map[string]agent.Agent{"openai": f}
}

func TestGenerateValidatesTopic(t *testing.T) {
	svc := newTestService(t, soloAgent(&fakeAgent{configured: true}), &fakeWeb{}, &fakeNews{})
	if _, err := svc.Generate(context.Background(), Request{Topic: "   "}); !errors.Is(err, ErrEmptyTopic) {
		t.Fatalf("err = %v, want ErrEmptyTopic", err)
	}
}

func TestGenerateFreshAndCached(t *testing.T) {
	ag := &fakeAgent{name: "OpenAI Agent", configured: true, take: "Takes are free."}
	svc := newTestService(t, soloAgent(ag), &fakeWeb{}, &fakeNews{})

	first, err := svc.Generate(context.Background(), Request{Topic: "Pineapple Pizza"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.Cached || first.HotTake != "Takes are free." || first.VariantCount != 1 {
		t.Fatalf("first = %+v", first)
	}
	if first.Style != agent.DefaultStyle {
		t.Errorf("style defaulted to %q", first.Style)
	}

	second, err := svc.Generate(context.Background(), Request{Topic: "pineapple pizza"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !second.Cached || second.HotTake != "Takes are free." || second.AgentUsed != "OpenAI Agent" {
		t.Fatalf("second = %+v", second)
	}
}

func TestGenerateWithEnrichment(t *testing.T) {
	ag := &fakeAgent{name: "OpenAI Agent", configured: true, take: "Informed take."}
	web := &fakeWeb{records: []searchquality.Record{{Title: "Hit", URL: "https://a.example/1"}}}
	news := &fakeNews{records: []searchquality.Record{{Title: "Headline", URL: "https://n.example/1"}}}
	svc := newTestService(t, soloAgent(ag), web, news)

	resp, err := svc.Generate(context.Background(), Request{
		Topic: "topic", UseWebSearch: true, UseNewsSearch: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !resp.WebSearchUsed || !resp.NewsSearchUsed {
		t.Errorf("flags = %v/%v", resp.WebSearchUsed, resp.NewsSearchUsed)
	}
	if !strings.Contains(resp.NewsContext, "Recent news and headlines:") {
		t.Errorf("news context = %q", resp.NewsContext)
	}

	webIdx := strings.Index(ag.gotContext, "Web search results:")
	newsIdx := strings.Index(ag.gotContext, "Recent news and headlines:")
	if webIdx < 0 || newsIdx < 0 || webIdx > newsIdx {
		t.Errorf("context ordering wrong:\n%s", ag.gotContext)
	}

	// Enriched requests bypass the variant pool entirely.
	again, err := svc.Generate(context.Background(), Request{Topic: "topic", UseWebSearch: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if again.Cached || again.VariantCount != 0 {
		t.Errorf("enriched response touched cache: %+v", again)
	}
}

func TestGenerateEmptySearchResults(t *testing.T) {
	ag := &fakeAgent{name: "OpenAI Agent", configured: true, take: "Still a take."}
	svc := newTestService(t, soloAgent(ag), &fakeWeb{}, &fakeNews{})

	resp, err := svc.Generate(context.Background(), Request{Topic: "topic", UseWebSearch: true, UseNewsSearch: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.WebSearchUsed || resp.NewsSearchUsed || resp.NewsContext != "" {
		t.Errorf("empty searches marked used: %+v", resp)
	}
	if ag.gotContext != "" {
		t.Errorf("agent got context %q for empty searches", ag.gotContext)
	}
}

func TestAgentSelection(t *testing.T) {
	openai := &fakeAgent{name: "OpenAI Agent", configured: false}
	claude := &fakeAgent{name: "Claude Agent", configured: true, take: "x"}
	agents := map[string]agent.Agent{"openai": openai, "anthropic": claude}
	svc := newTestService(t, agents, &fakeWeb{}, &fakeNews{})

	if _, err := svc.Generate(context.Background(), Request{Topic: "t", AgentType: "mystery"}); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("err = %v, want ErrUnknownAgent", err)
	}
	if _, err := svc.Generate(context.Background(), Request{Topic: "t", AgentType: "openai"}); !errors.Is(err, ErrAgentNotConfigured) {
		t.Errorf("err = %v, want ErrAgentNotConfigured", err)
	}

	resp, err := svc.Generate(context.Background(), Request{Topic: "t"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.AgentUsed != "Claude Agent" {
		t.Errorf("agent = %q, want the only configured one", resp.AgentUsed)
	}

	none := newTestService(t, soloAgent(&fakeAgent{configured: false}), &fakeWeb{}, &fakeNews{})
	if _, err := none.Generate(context.Background(), Request{Topic: "t"}); !errors.Is(err, ErrNoConfiguredAgent) {
		t.Errorf("err = %v, want ErrNoConfiguredAgent", err)
	}
}

func TestStream(t *testing.T) {
	ag := &fakeAgent{name: "OpenAI Agent", configured: true, take: "streamed hot take"}
	svc := newTestService(t, soloAgent(ag), &fakeWeb{}, &fakeNews{})

	var got strings.Builder
	resp, err := svc.Stream(context.Background(), Request{Topic: "topic"}, func(delta string) error {
		got.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if got.String() != "streamed hot take" {
		t.Errorf("deltas = %q", got.String())
	}
	if resp.HotTake != "streamed hot take" || resp.VariantCount != 1 {
		t.Errorf("resp = %+v", resp)
	}

	// The completed stream seeds the pool for plain generation.
	cached, err := svc.Generate(context.Background(), Request{Topic: "topic"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !cached.Cached {
		t.Errorf("pool not seeded by stream: %+v", cached)
	}
}

func TestAvailableAgents(t *testing.T) {
	svc := newTestService(t, map[string]agent.Agent{
		"openai":    &fakeAgent{name: "OpenAI Agent", configured: true},
		"anthropic": &fakeAgent{name: "Claude Agent"},
	}, &fakeWeb{}, &fakeNews{})

	infos := svc.AvailableAgents()
	if len(infos) != 2 || infos[0].Type != "anthropic" || infos[1].Type != "openai" {
		t.Fatalf("infos = %+v", infos)
	}
	if !infos[1].Configured || infos[0].Configured {
		t.Errorf("configured flags wrong: %+v", infos)
	}
}
