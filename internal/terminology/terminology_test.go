package terminology

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/internal/domain"
)

type fakeRemote struct {
	calls  []string
	result []domain.SearchResult
	err    error
}

func (f *fakeRemote) SearchURL(_ context.Context, prefix, query string, limit int) ([]domain.SearchResult, error) {
	f.calls = append(f.calls, "url:"+prefix+query)
	return f.result, f.err
}

func (f *fakeRemote) SearchICHI(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	f.calls = append(f.calls, "ichi:"+query)
	return f.result, f.err
}

func (f *fakeRemote) SearchICD(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	f.calls = append(f.calls, "icd:"+query)
	return f.result, f.err
}

func TestResolvePriority(t *testing.T) {
	fn := SearchFunc(func(context.Context, string) ([]domain.SearchResult, error) { return nil, nil })

	assert.Equal(t, KindCustom, Resolve(Options{CustomSearch: true, SearchFunc: fn, SearchURL: "http://x?q="}).Kind)
	// a function without the flag is ignored
	assert.Equal(t, KindByURL, Resolve(Options{SearchFunc: fn, SearchURL: "http://x?q="}).Kind)
	// the flag without a function falls through
	assert.Equal(t, KindByType, Resolve(Options{CustomSearch: true, SearchType: domain.SearchDiagnosis}).Kind)

	s := Resolve(Options{})
	assert.Equal(t, KindByType, s.Kind)
	assert.Equal(t, domain.SearchProcedure, s.Type)
}

func TestStrategySearcherRoutes(t *testing.T) {
	remote := &fakeRemote{}
	ctx := context.Background()

	_, _ = RemoteByURL("http://h/api/ichi/search?q=").Searcher(remote, 100).Search(ctx, "app")
	_, _ = RemoteByType(domain.SearchProcedure).Searcher(remote, 100).Search(ctx, "chol")
	_, _ = RemoteByType(domain.SearchDiagnosis).Searcher(remote, 100).Search(ctx, "diab")

	assert.Equal(t, []string{"url:http://h/api/ichi/search?q=app", "ichi:chol", "icd:diab"}, remote.calls)
}

func TestStrategySearcherWithoutRemote(t *testing.T) {
	_, err := RemoteByType(domain.SearchDiagnosis).Searcher(nil, 10).Search(context.Background(), "x")
	require.Error(t, err)
}

func TestSampleMatches(t *testing.T) {
	tests := []struct {
		name  string
		typ   domain.SearchType
		query string
		codes []string
	}{
		{"title substring", domain.SearchProcedure, "cholecyst", []string{"KBP.JB.BA", "KBP.JB.BB"}},
		{"case insensitive", domain.SearchProcedure, "COLON", []string{"KBR.JB.CA"}},
		{"code match", domain.SearchDiagnosis, "da03", []string{"DA03.0", "DA03.1", "DA03.Y"}},
		{"description match", domain.SearchDiagnosis, "insulin", []string{"5A20.00"}},
		{"no match", domain.SearchProcedure, "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var codes []string
			for _, r := range SampleMatches(tt.typ, tt.query) {
				codes = append(codes, r.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestSampleMatchesAppendixDrainage(t *testing.T) {
	// "appendix" hits title and description of the drainage entry and the
	// descriptions of the appendectomies
	got := SampleMatches(domain.SearchProcedure, "appendix")
	require.Len(t, got, 3)
	assert.Equal(t, "KBO.JB.AE", got[0].Code)
}

func TestSampleMatchesEmptyQueryReturnsCopy(t *testing.T) {
	all := SampleMatches(domain.SearchDiagnosis, "")
	require.Len(t, all, 10)
	all[0].Title = "changed"
	assert.Equal(t, "Acute appendicitis", SampleDiagnoses[0].Title)
}

func TestCacheStoresOnlyNonEmptySuccess(t *testing.T) {
	cache := NewCache(8, time.Minute)
	require.NotNil(t, cache)

	calls := 0
	var result []domain.SearchResult
	var err error
	inner := SearchFunc(func(context.Context, string) ([]domain.SearchResult, error) {
		calls++
		return result, err
	})
	s := cache.Wrap("type:procedure", inner)
	ctx := context.Background()

	// empty results are not cached
	_, _ = s.Search(ctx, "ab")
	_, _ = s.Search(ctx, "ab")
	assert.Equal(t, 2, calls)

	// errors are not cached
	err = errors.New("down")
	_, _ = s.Search(ctx, "ab")
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, cache.Len())

	err = nil
	result = []domain.SearchResult{{Code: "A", Title: "Alpha"}}
	got, gotErr := s.Search(ctx, "Ab")
	require.NoError(t, gotErr)
	assert.Equal(t, result, got)
	assert.Equal(t, 4, calls)

	// the key is case-insensitive
	got, gotErr = s.Search(ctx, " AB ")
	require.NoError(t, gotErr)
	assert.Equal(t, result, got)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 1, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCache(0, time.Minute)
	assert.Nil(t, cache)

	inner := SearchFunc(func(context.Context, string) ([]domain.SearchResult, error) { return nil, nil })
	assert.NotNil(t, cache.Wrap("type:procedure", inner))
	assert.Equal(t, 0, cache.Len())
}

func TestStrategyKey(t *testing.T) {
	assert.Equal(t, "", Custom(nil).Key())
	assert.Equal(t, "url:http://x?q=", RemoteByURL("http://x?q=").Key())
	assert.Equal(t, "type:diagnosis", RemoteByType(domain.SearchDiagnosis).Key())
}
