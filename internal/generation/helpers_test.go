package generation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jonathan/profile-agent/internal/llm"
	"github.com/jonathan/profile-agent/internal/types"
)

var errHostDown = errors.New("connection refused")

// fakeClient answers prompts through a function and records every call.
type fakeClient struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	prompts []string
	chats   [][]llm.Message
}

func (f *fakeClient) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeClient) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.mu.Lock()
	f.chats = append(f.chats, messages)
	f.mu.Unlock()
	return f.Generate(ctx, messages[len(messages)-1].Content, opts)
}

func (f *fakeClient) Model() string { return "fake" }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func replying(text string) *fakeClient {
	return &fakeClient{respond: func(string) (string, error) { return text, nil }}
}

func failing() *fakeClient {
	return &fakeClient{respond: func(string) (string, error) { return "", errHostDown }}
}

// routing replies based on a marker phrase in the prompt.
func routing(routes map[string]string) *fakeClient {
	return &fakeClient{respond: func(prompt string) (string, error) {
		for marker, reply := range routes {
			if strings.Contains(prompt, marker) {
				return reply, nil
			}
		}
		return "", errHostDown
	}}
}

func samplePortfolio() *types.PortfolioData {
	return &types.PortfolioData{
		BasicInfo: types.BasicInfo{Name: "Ada Lovelace", Title: "Data Engineer"},
		About: types.About{
			Summary:    "I build reliable data platforms.",
			Highlights: []string{"Cloud migrations", "Team leadership"},
		},
		Experience: []types.Experience{
			{Title: "Technology Lead", Company: "Acme", Duration: "Dec 2022 - Present"},
			{Title: "Senior Data Engineer", Company: "Globex", Duration: "May 2020 - Dec 2022"},
			{Title: "Data Engineer", Company: "Initech", Duration: "Jun 2018 - Apr 2020"},
		},
		Skills: types.Skills{
			Technical: []string{"SQL", "Python", "Airflow"},
			Soft:      []string{"Leadership"},
		},
	}
}
