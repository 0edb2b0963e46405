package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSubject(t *testing.T) {
	cases := map[string]string{
		"Project Alpha":            "Project Alpha",
		"Re: Project Alpha":        "Project Alpha",
		"RE: Project Alpha":        "Project Alpha",
		"Fwd: Project Alpha":       "Project Alpha",
		"FW: Project Alpha":        "Project Alpha",
		"Re: Fwd: Re: Budget":      "Budget",
		"  Re:   Budget Review  ":  "Budget Review",
		"":                         "",
		"Regarding the offsite":    "Regarding the offsite",
		"Re:":                      "",
	}

	for input, want := range cases {
		assert.Equal(t, want, NormalizeSubject(input), "subject %q", input)
	}
}

func TestThreadKeyFor_StableAndCaseInsensitive(t *testing.T) {
	key := ThreadKeyFor("Project Alpha")

	assert.Equal(t, key, ThreadKeyFor("Re: Project Alpha"))
	assert.Equal(t, key, ThreadKeyFor("fwd: project alpha"))
	assert.NotEqual(t, key, ThreadKeyFor("Project Beta"))
}

func TestGroupByThread(t *testing.T) {
	msgs := []*Message{
		{ID: "1", Subject: "Project Alpha"},
		{ID: "2", Subject: "Re: Project Alpha"},
		{ID: "3", Subject: "Fwd: Project Alpha"},
		{ID: "4", Subject: "Budget Review"},
		{ID: "5", Subject: "Re: Budget Review"},
	}

	threads := GroupByThread(msgs)
	require.Len(t, threads, 2)

	alpha := threads[ThreadKeyFor("Project Alpha")]
	budget := threads[ThreadKeyFor("Budget Review")]
	assert.Len(t, alpha, 3)
	assert.Len(t, budget, 2)
}

func TestGroupByThread_SortsByDate(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []*Message{
		{ID: "latest", Subject: "Re: Standup", Date: base.Add(2 * time.Hour)},
		{ID: "first", Subject: "Standup", Date: base},
		{ID: "middle", Subject: "Re: Standup", Date: base.Add(time.Hour)},
	}

	threads := GroupByThread(msgs)
	thread := threads[ThreadKeyFor("Standup")]

	require.Len(t, thread, 3)
	assert.Equal(t, []string{"first", "middle", "latest"}, ids(thread))
}

func TestGroupByThread_MissingDatesSortFirstAndStable(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []*Message{
		{ID: "dated", Subject: "Plan", Date: base},
		{ID: "undated-a", Subject: "Re: Plan"},
		{ID: "undated-b", Subject: "Fwd: Plan"},
	}

	thread := GroupByThread(msgs)[ThreadKeyFor("Plan")]

	require.Len(t, thread, 3)
	assert.Equal(t, []string{"undated-a", "undated-b", "dated"}, ids(thread))
}

func TestGetThread(t *testing.T) {
	universe := []*Message{
		{ID: "1", Subject: "Project Alpha"},
		{ID: "2", Subject: "Re: Project Alpha"},
		{ID: "3", Subject: "Budget Review"},
	}

	thread := GetThread(&Message{Subject: "Fwd: Project Alpha"}, universe)

	assert.Equal(t, []string{"1", "2"}, ids(thread))
}
