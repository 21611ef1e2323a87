package components

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/xctimer/internal/model"
)

func renderBoard(t *testing.T, session model.Session) *goquery.Document {
	t.Helper()
	var b strings.Builder
	require.NoError(t, Board(session).Render(context.Background(), &b))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	return doc
}

func TestBoardEmptySession(t *testing.T) {
	doc := renderBoard(t, model.NewSession("s1", 1))

	assert.Equal(t, 1, doc.Find("section#"+BoardID).Length())
	assert.Equal(t, "No runners yet", doc.Find(".empty").Text())
	assert.Equal(t, 0, doc.Find("table.times").Length())
	assert.Equal(t, 0, doc.Find(".current-race").Length())
}

func TestBoardGrid(t *testing.T) {
	session := model.NewSession("s1", 1)
	session.Unit = model.UnitMiles
	session.CurrentRace = "JV <Boys>"
	session.Teams = []model.Team{{ID: "t1", Name: "Harriers", Color: "#ff0000"}}
	session.Runners = []model.Runner{
		{ID: "r1", Name: "Ana", Grade: model.GradeSenior, TeamID: "t1"},
		{ID: "r2", Name: "Ben", Grade: model.GradeFreshman},
	}
	session.Times = []model.TimeEntry{{RunnerID: "r1", Checkpoint: "2M", Time: "11:40"}}

	doc := renderBoard(t, session)

	assert.Equal(t, "JV <Boys>", doc.Find(".current-race").Text())
	color, _ := doc.Find("li.team[data-team-id='t1']").Attr("data-color")
	assert.Equal(t, "#ff0000", color)

	headers := doc.Find("th.checkpoint").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"1M", "2M", "3M", "3.1M"}, headers)

	ana := doc.Find("tr.runner[data-runner-id='r1']")
	assert.Equal(t, "Harriers", ana.Find(".team-name").Text())
	assert.Equal(t, "11:40", ana.Find("td[data-checkpoint='2M']").Text())
	assert.Equal(t, "", ana.Find("td[data-checkpoint='1M']").Text())
	assert.Equal(t, "", doc.Find("tr.runner[data-runner-id='r2'] .team-name").Text())
	assert.Equal(t, "2 runners, 1 times", doc.Find(".counts").Text())
}
