package registry_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/cache"
	"github.com/xy-planning-network/golink/logger"
	"github.com/xy-planning-network/golink/registry"
	"github.com/xy-planning-network/golink/store"
)

var husserl = store.User{ExternalID: "ehusserl", Name: "Edmund Husserl"}

func newRegistry(t *testing.T, opts ...registry.Option) (*registry.Registry, store.Store) {
	s, err := store.NewMemory()
	require.Nil(t, err)

	return registry.New(s, opts...), s
}

func TestNormalizeAlias(t *testing.T) {
	for _, tc := range []struct {
		name     string
		alias    string
		expected string
		err      error
	}{
		{"Plain", "google", "google", nil},
		{"Upper", "Google", "google", nil},
		{"Slash", "/google", "google", nil},
		{"Spaces", "  google ", "google", nil},
		{"Nested-Path", "docs/api", "docs/api", nil},
		{"Empty", "", "", golink.ErrNotValid},
		{"Only-Slash", "/", "", golink.ErrNotValid},
		{"Inner-Space", "goo gle", "", golink.ErrNotValid},
		{"Reserved", "_golink", "", golink.ErrNotValid},
		{"Reserved-Upper", "/_GOLINK/api", "", golink.ErrNotValid},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := registry.NormalizeAlias(tc.alias)

			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestResolve(t *testing.T) {
	// Arrange
	ctx := context.Background()
	r, _ := newRegistry(t)
	_, err := r.Create(ctx, "Google", "https://duckduckgo.com/{?q=$1}", husserl)
	require.Nil(t, err)
	_, err = r.Create(ctx, "g", "http://google.com{/foo/$1{/bar/$2}}", husserl)
	require.Nil(t, err)

	for _, tc := range []struct {
		name     string
		path     string
		expected string
	}{
		{"Bare", "/google", "https://duckduckgo.com/"},
		{"Case-Insensitive", "/GOOGLE", "https://duckduckgo.com/"},
		{"No-Slash", "google", "https://duckduckgo.com/"},
		{"One-Word", "/google golang", "https://duckduckgo.com/?q=golang"},
		{
			"Escaped",
			"/" + url.PathEscape("google let me google that for you"),
			"https://duckduckgo.com/?q=let me google that for you",
		},
		{"Nested", "/g x%20y", "http://google.com/foo/x/bar/y"},
		{"Stray-Percent", "/google%20100%", "https://duckduckgo.com/?q=100%"},
		{"Bad-Escape-Kept", "/google%20a%zz", "https://duckduckgo.com/?q=a%zz"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, err := r.Resolve(ctx, tc.path)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	r, _ := newRegistry(t)

	_, err := r.Resolve(context.Background(), "/missing")
	require.ErrorIs(t, err, golink.ErrNotFound)

	_, err = r.Resolve(context.Background(), "/")
	require.ErrorIs(t, err, golink.ErrNotFound)
}

func TestResolveCountsClicks(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clicks := cache.NewMemoryClicks()
	r, _ := newRegistry(t, registry.WithClicks(clicks))
	rec, err := r.Create(ctx, "go", "https://go.dev", husserl)
	require.Nil(t, err)

	// Act
	for i := 0; i < 3; i++ {
		_, err := r.Resolve(ctx, "/go")
		require.Nil(t, err)
	}

	// Assert
	n, err := r.Clicks(ctx, "go")
	require.Nil(t, err)
	require.EqualValues(t, 3, n)

	n, err = clicks.Clicks(ctx, rec.PublicRef)
	require.Nil(t, err)
	require.EqualValues(t, 3, n)
}

func TestClicksNotCounted(t *testing.T) {
	r, _ := newRegistry(t)

	_, err := r.Clicks(context.Background(), "go")
	require.ErrorIs(t, err, golink.ErrNotImplemented)
}

type failingClicks struct{}

func (failingClicks) AddClick(context.Context, string) error       { return errors.New("down") }
func (failingClicks) Clicks(context.Context, string) (int64, error) { return 0, errors.New("down") }

func TestResolveSurvivesClickFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	buf := new(bytes.Buffer)
	l := logger.New(slog.New(slog.NewJSONHandler(buf, nil)))
	r, _ := newRegistry(t, registry.WithClicks(failingClicks{}), registry.WithLogger(l))
	_, err := r.Create(ctx, "go", "https://go.dev", husserl)
	require.Nil(t, err)

	// Act
	actual, err := r.Resolve(ctx, "/go")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "https://go.dev", actual)
	require.Contains(t, buf.String(), "failed counting click")
}

func TestCreateWarnsOnMalformedTemplate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	buf := new(bytes.Buffer)
	l := logger.New(slog.New(slog.NewJSONHandler(buf, nil)))
	r, _ := newRegistry(t, registry.WithLogger(l))

	// Act
	_, err := r.Create(ctx, "bad", "http://x.com}/$1{", husserl)
	require.Nil(t, err)
	actual, err := r.Resolve(ctx, "/bad a")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "http://x.com}/$1{ a", actual)
	require.Contains(t, buf.String(), "mismatched params")
	require.Contains(t, buf.String(), `"alias":"bad"`)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)

	rec, err := r.Create(ctx, " /Docs ", "https://docs.example.com", husserl)
	require.Nil(t, err)
	require.Equal(t, "docs", rec.Alias)

	_, err = r.Create(ctx, "DOCS", "https://docs.example.com", husserl)
	require.ErrorIs(t, err, golink.ErrExists)

	_, err = r.Create(ctx, "_golink", "https://docs.example.com", husserl)
	require.ErrorIs(t, err, golink.ErrNotValid)
}

func TestUpdateRecompiles(t *testing.T) {
	// Arrange
	ctx := context.Background()
	r, _ := newRegistry(t)
	rec, err := r.Create(ctx, "search", "https://duckduckgo.com/{?q=$1}", husserl)
	require.Nil(t, err)
	_, err = r.Resolve(ctx, "/search x")
	require.Nil(t, err)

	// Act
	_, err = r.Update(ctx, rec.PublicRef, "https://google.com/{search?q=$1}", husserl)
	require.Nil(t, err)
	actual, err := r.Resolve(ctx, "/search x")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "https://google.com/search?q=x", actual)
}

func TestLookupRecompilesOnOutsideChange(t *testing.T) {
	// Arrange
	ctx := context.Background()
	r, s := newRegistry(t)
	_, err := r.Create(ctx, "search", "https://duckduckgo.com/{?q=$1}", husserl)
	require.Nil(t, err)

	// Act
	_, err = s.Update(ctx, "search", "https://bing.com/{search?q=$1}", husserl)
	require.Nil(t, err)
	compiled, _, err := r.Lookup(ctx, "SEARCH")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "https://bing.com/search?q=x", compiled.Evaluate("x"))
}

func TestLookupByPublicRef(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)
	rec, err := r.Create(ctx, "go", "https://go.dev", husserl)
	require.Nil(t, err)

	_, actual, err := r.Lookup(ctx, rec.PublicRef)
	require.Nil(t, err)
	require.Equal(t, "go", actual.Alias)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)
	_, err := r.Create(ctx, "go", "https://go.dev", husserl)
	require.Nil(t, err)

	deleted, err := r.Delete(ctx, "GO")
	require.Nil(t, err)
	require.Equal(t, "go", deleted.Alias)

	_, err = r.Resolve(ctx, "/go")
	require.ErrorIs(t, err, golink.ErrNotFound)

	_, err = r.Delete(ctx, "go")
	require.ErrorIs(t, err, golink.ErrNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)
	_, err := r.Create(ctx, "a", "https://a.com", husserl)
	require.Nil(t, err)

	list, err := r.List(ctx, store.Page{})
	require.Nil(t, err)
	require.EqualValues(t, 1, list.Total)
	require.False(t, list.HasMore)
}
