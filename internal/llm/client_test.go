package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	cases := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"", ProviderGemini, false},
		{"gemini", ProviderGemini, false},
		{"Google", ProviderGemini, false},
		{" anthropic ", ProviderAnthropic, false},
		{"OPENAI", ProviderOpenAI, false},
		{"mistral", "", true},
	}
	for _, tc := range cases {
		got, err := ParseProvider(tc.in)
		if tc.wantErr {
			require.Error(t, err, "in=%q", tc.in)
			continue
		}
		require.NoError(t, err, "in=%q", tc.in)
		require.Equal(t, tc.want, got)
	}
}

func TestNewClient_EmptyKey(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderAnthropic, ProviderOpenAI} {
		_, err := NewClient(context.Background(), p, "", Options{})
		require.Error(t, err, "provider=%s", p)
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), Provider("bogus"), "k", Options{})
	require.Error(t, err)
}

func TestNewClient_OpenAI(t *testing.T) {
	c, err := NewClient(context.Background(), ProviderOpenAI, "sk-test", Options{OpenAIBaseURL: "http://localhost:1/v1"})
	require.NoError(t, err)
	require.Equal(t, "openai", c.Name())
	require.NotEmpty(t, c.Models())
}

func TestNewClient_Anthropic(t *testing.T) {
	c, err := NewClient(context.Background(), ProviderAnthropic, "sk-ant", Options{})
	require.NoError(t, err)
	require.Equal(t, "anthropic", c.Name())
}

func TestStaticCredential(t *testing.T) {
	_, err := StaticCredential("  ").APIKey(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)

	key, err := StaticCredential(" abc ").APIKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", key)
}

type fakeGetter struct {
	val   string
	err   error
	calls int
}

func (f *fakeGetter) GetParameter(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.val, f.err
}

func TestParameterCredential_CachesSuccess(t *testing.T) {
	g := &fakeGetter{val: "from-ssm"}
	p := NewParameterCredential(g, "/ai-slides/google-api-key")

	for i := 0; i < 3; i++ {
		key, err := p.APIKey(context.Background())
		require.NoError(t, err)
		require.Equal(t, "from-ssm", key)
	}
	require.Equal(t, 1, g.calls)
}

func TestParameterCredential_RetriesFailure(t *testing.T) {
	g := &fakeGetter{err: errors.New("throttled")}
	p := NewParameterCredential(g, "/x")

	_, err := p.APIKey(context.Background())
	require.Error(t, err)

	g.err = nil
	g.val = "late"
	key, err := p.APIKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "late", key)
	require.Equal(t, 2, g.calls)
}

func TestChainCredential(t *testing.T) {
	chain := ChainCredential{StaticCredential(""), NewParameterCredential(&fakeGetter{val: "k2"}, "/x")}
	key, err := chain.APIKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "k2", key)

	_, err = ChainCredential{StaticCredential("")}.APIKey(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)

	_, err = ChainCredential{StaticCredential(""), NewParameterCredential(&fakeGetter{err: errors.New("denied")}, "/x")}.APIKey(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoCredential)
}
