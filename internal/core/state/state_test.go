package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecord(version string, result v1.ReleaseResult) v1.ReleaseRecord {
	now := time.Now().UTC()
	return v1.ReleaseRecord{
		Project:    "aero-data",
		OldVersion: "0.4.1",
		NewVersion: version,
		Tag:        "v" + version,
		Branch:     "main",
		Result:     result,
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	}
}

func TestAppendAndGet(t *testing.T) {
	db := openTestDB(t)

	id, err := db.AppendRelease(sampleRecord("0.4.2", v1.ResultSuccess))
	require.NoError(t, err)
	assert.Equal(t, "00000001", id)

	rec, err := db.GetRelease(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "0.4.2", rec.NewVersion)
	assert.Equal(t, v1.ResultSuccess, rec.Result)

	missing, err := db.GetRelease("99999999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListReleasesNewestFirst(t *testing.T) {
	db := openTestDB(t)

	for _, ver := range []string{"0.4.2", "0.5.0", "0.5.1"} {
		_, err := db.AppendRelease(sampleRecord(ver, v1.ResultSuccess))
		require.NoError(t, err)
	}

	recs, err := db.ListReleases(0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "0.5.1", recs[0].NewVersion)
	assert.Equal(t, "0.4.2", recs[2].NewVersion)

	limited, err := db.ListReleases(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "0.5.1", limited[0].NewVersion)
}

func TestLastRelease(t *testing.T) {
	db := openTestDB(t)

	last, err := db.LastRelease()
	require.NoError(t, err)
	assert.Nil(t, last)

	_, err = db.AppendRelease(sampleRecord("0.4.2", v1.ResultFailure))
	require.NoError(t, err)
	_, err = db.AppendRelease(sampleRecord("0.4.2", v1.ResultSuccess))
	require.NoError(t, err)

	last, err = db.LastRelease()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, v1.ResultSuccess, last.Result)
}
