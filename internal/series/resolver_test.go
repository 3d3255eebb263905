package series_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/tvkeep/internal/series"
	"github.com/vmunix/tvkeep/internal/series/mocks"
	"github.com/vmunix/tvkeep/pkg/release"
)

func simpsonsMeta() series.Metadata {
	return series.Metadata{TVDBID: 71663, Title: "The Simpsons", Year: 1989, Status: "Continuing", Network: "FOX"}
}

func TestResolveFromPath_SearchThenFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	metadata := mocks.NewMockMetadataClient(ctrl)

	gomock.InOrder(
		metadata.EXPECT().SearchByTitle(gomock.Any(), "The Simpsons").
			Return([]series.SearchResult{{TVDBID: 71663, Title: "Simpsons", Year: 1989}}, nil),
		metadata.EXPECT().FetchByID(gomock.Any(), int64(71663)).
			Return(simpsonsMeta(), true, nil),
	)

	r := series.NewResolver(metadata, nil)
	res, ok, err := r.ResolveFromPath(context.Background(), `D:\TV Shows\The Simpsons`)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `D:\TV Shows\The Simpsons`, res.Path)
	assert.Equal(t, "The Simpsons", res.SearchTitle)
	assert.Equal(t, int64(71663), res.Candidate.TVDBID)
	// The full record is authoritative over the search summary.
	assert.Equal(t, "The Simpsons", res.Series.Title)
	assert.Equal(t, "FOX", res.Series.Network)
	assert.Equal(t, release.ConfidenceHigh, res.Confidence)
}

func TestResolveFromPath_TopRankedWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	metadata := mocks.NewMockMetadataClient(ctrl)

	metadata.EXPECT().SearchByTitle(gomock.Any(), "Doctor Who").
		Return([]series.SearchResult{
			{TVDBID: 78804, Title: "Doctor Who", Year: 2005},
			{TVDBID: 76107, Title: "Doctor Who", Year: 1963},
		}, nil)
	metadata.EXPECT().FetchByID(gomock.Any(), int64(78804)).
		Return(series.Metadata{TVDBID: 78804, Title: "Doctor Who (2005)", Year: 2005}, true, nil)

	r := series.NewResolver(metadata, nil)
	res, ok, err := r.ResolveFromPath(context.Background(), "/tv/Doctor Who/")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(78804), res.Series.TVDBID)
}

func TestResolveFromPath_SearchesRawFolderName(t *testing.T) {
	ctrl := gomock.NewController(t)
	metadata := mocks.NewMockMetadataClient(ctrl)

	metadata.EXPECT().SearchByTitle(gomock.Any(), "Law.&.Order").Return([]series.SearchResult{}, nil)

	r := series.NewResolver(metadata, nil)
	_, ok, err := r.ResolveFromPath(context.Background(), "/tv/Law.&.Order")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveFromPath_NotResolved(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		setup func(m *mocks.MockMetadataClientMockRecorder)
	}{
		{
			name:  "empty folder name",
			path:  `\\`,
			setup: func(m *mocks.MockMetadataClientMockRecorder) {},
		},
		{
			name: "no candidates",
			path: "/tv/Nonexistent Show",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), "Nonexistent Show").Return(nil, nil)
			},
		},
		{
			name: "no full record",
			path: "/tv/Ghost",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), "Ghost").Return([]series.SearchResult{{TVDBID: 5, Title: "Ghost"}}, nil)
				m.FetchByID(gomock.Any(), int64(5)).Return(series.Metadata{}, false, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			metadata := mocks.NewMockMetadataClient(ctrl)
			tt.setup(metadata.EXPECT())

			r := series.NewResolver(metadata, nil)
			_, ok, err := r.ResolveFromPath(context.Background(), tt.path)

			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestResolveFromPath_ProviderErrors(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name  string
		setup func(m *mocks.MockMetadataClientMockRecorder)
		cause error
	}{
		{
			name: "search fault",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), gomock.Any()).Return(nil, boom)
			},
			cause: boom,
		},
		{
			name: "fetch fault",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), gomock.Any()).Return([]series.SearchResult{{TVDBID: 1, Title: "Show"}}, nil)
				m.FetchByID(gomock.Any(), int64(1)).Return(series.Metadata{}, false, boom)
			},
			cause: boom,
		},
		{
			name: "non-positive candidate id",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), gomock.Any()).Return([]series.SearchResult{{TVDBID: 0, Title: "Show"}}, nil)
			},
		},
		{
			name: "record for another id",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), gomock.Any()).Return([]series.SearchResult{{TVDBID: 1, Title: "Show"}}, nil)
				m.FetchByID(gomock.Any(), int64(1)).Return(series.Metadata{TVDBID: 2, Title: "Other"}, true, nil)
			},
		},
		{
			name: "record without title",
			setup: func(m *mocks.MockMetadataClientMockRecorder) {
				m.SearchByTitle(gomock.Any(), gomock.Any()).Return([]series.SearchResult{{TVDBID: 1, Title: "Show"}}, nil)
				m.FetchByID(gomock.Any(), int64(1)).Return(series.Metadata{TVDBID: 1, Title: "  "}, true, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			metadata := mocks.NewMockMetadataClient(ctrl)
			tt.setup(metadata.EXPECT())

			r := series.NewResolver(metadata, nil)
			_, ok, err := r.ResolveFromPath(context.Background(), "/tv/Show")

			require.Error(t, err)
			assert.False(t, ok)
			assert.ErrorIs(t, err, series.ErrProvider)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestLeafFolder(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`D:\TV Shows\The Simpsons`, "The Simpsons"},
		{`D:\TV Shows\The Simpsons\`, "The Simpsons"},
		{"/media/tv/Lost", "Lost"},
		{"/media/tv/Lost//", "Lost"},
		{`C:\Test\`, "Test"},
		{"Breaking Bad", "Breaking Bad"},
		{`/mnt/share\Mixed Separators`, "Mixed Separators"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, series.LeafFolder(tt.path))
		})
	}
}
