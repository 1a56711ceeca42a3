package terminology

import (
	"context"
	"fmt"

	"clinicbook/internal/domain"
)

// Searcher runs one terminology lookup
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// SearchFunc adapts a plain function to Searcher
type SearchFunc func(ctx context.Context, query string) ([]domain.SearchResult, error)

func (f SearchFunc) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return f(ctx, query)
}

// Remote is the backend surface the URL and type strategies call
type Remote interface {
	SearchURL(ctx context.Context, prefix, query string, limit int) ([]domain.SearchResult, error)
	SearchICHI(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
	SearchICD(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// Kind identifies the strategy variant
type Kind int

const (
	KindByType Kind = iota
	KindByURL
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	case KindByURL:
		return "url"
	default:
		return "type"
	}
}

// Strategy is the lookup variant chosen once when a search field is configured
type Strategy struct {
	Kind Kind
	Func SearchFunc
	URL  string
	Type domain.SearchType
}

// Custom builds a strategy around a caller-supplied search function
func Custom(fn SearchFunc) Strategy {
	return Strategy{Kind: KindCustom, Func: fn}
}

// RemoteByURL builds a strategy that appends the escaped query to prefix
func RemoteByURL(prefix string) Strategy {
	return Strategy{Kind: KindByURL, URL: prefix}
}

// RemoteByType builds a strategy that calls the default endpoint for t
func RemoteByType(t domain.SearchType) Strategy {
	return Strategy{Kind: KindByType, Type: t}
}

// Options are the search-related settings of a typeahead field
type Options struct {
	SearchType   domain.SearchType
	SearchURL    string
	SearchFunc   SearchFunc
	CustomSearch bool
}

// Resolve picks the strategy: a custom function only when CustomSearch is set
// and a function is present, then the URL prefix, then the search type.
func Resolve(opts Options) Strategy {
	if opts.CustomSearch && opts.SearchFunc != nil {
		return Custom(opts.SearchFunc)
	}
	if opts.SearchURL != "" {
		return RemoteByURL(opts.SearchURL)
	}
	t := opts.SearchType
	if t == "" {
		t = domain.SearchProcedure
	}
	return RemoteByType(t)
}

// Key identifies the strategy for caching. Custom strategies have no stable
// identity and return an empty key.
func (s Strategy) Key() string {
	switch s.Kind {
	case KindCustom:
		return ""
	case KindByURL:
		return "url:" + s.URL
	default:
		return "type:" + string(s.Type)
	}
}

// Searcher binds the strategy to a backend. remote may be nil for custom
// strategies.
func (s Strategy) Searcher(remote Remote, limit int) Searcher {
	switch s.Kind {
	case KindCustom:
		return s.Func
	case KindByURL:
		prefix := s.URL
		return SearchFunc(func(ctx context.Context, query string) ([]domain.SearchResult, error) {
			if remote == nil {
				return nil, fmt.Errorf("no backend configured for %s", prefix)
			}
			return remote.SearchURL(ctx, prefix, query, limit)
		})
	default:
		t := s.Type
		return SearchFunc(func(ctx context.Context, query string) ([]domain.SearchResult, error) {
			if remote == nil {
				return nil, fmt.Errorf("no backend configured for %s search", t.System())
			}
			if t == domain.SearchDiagnosis {
				return remote.SearchICD(ctx, query, limit)
			}
			return remote.SearchICHI(ctx, query, limit)
		})
	}
}
