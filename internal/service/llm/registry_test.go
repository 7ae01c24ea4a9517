package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhik/internal/config"
	"vidhik/internal/domain/services"
)

type stubProvider struct{ name string }

func (s *stubProvider) Name() string              { return s.name }
func (s *stubProvider) SupportsModel(string) bool { return true }
func (s *stubProvider) GenerateResponse(context.Context, *services.GenerateRequest) (*services.GenerateResponse, error) {
	return &services.GenerateResponse{Text: s.name}, nil
}

type countingFactory struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *countingFactory) GetProvider(name string) (services.LLMProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "broken" {
		return nil, errors.New("no credentials")
	}
	f.calls[name]++
	return &stubProvider{name: name}, nil
}

func TestProviderRegistry_CachesProviders(t *testing.T) {
	factory := &countingFactory{calls: make(map[string]int)}
	r := NewProviderRegistry(factory)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.GetProvider("gemini")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, factory.calls["gemini"])
}

func TestProviderRegistry_Resolve(t *testing.T) {
	r := NewProviderRegistry(&countingFactory{calls: make(map[string]int)})

	p, model, err := r.Resolve("gemini-2.5-pro")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "gemini-2.5-pro", model)

	_, _, err = r.Resolve("gpt-4o")
	assert.Error(t, err)

	_, _, err = r.Resolve("broken/model")
	assert.Error(t, err)

	_, err = r.GetProvider("")
	assert.Error(t, err)
}

func TestProviderFactory(t *testing.T) {
	f := NewProviderFactory(&config.Config{})

	_, err := f.GetProvider(ProviderGemini)
	assert.Error(t, err, "gemini needs an API key")

	_, err = f.GetProvider(ProviderAnthropic)
	assert.Error(t, err, "anthropic needs an API key")

	_, err = f.GetProvider("openrouter")
	assert.Error(t, err)

	p, err := NewProviderFactory(&config.Config{GeminiAPIKey: "k"}).GetProvider(ProviderGemini)
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}
