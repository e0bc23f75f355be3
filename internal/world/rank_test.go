package world

import "testing"

func TestRankFor(t *testing.T) {
	cases := []struct {
		score  int
		index  int
		name   string
		bucket string
		beaten bool
	}{
		{0, 0, "Novice Sevak", "0k-15k", false},
		{14999, 0, "Novice Sevak", "0k-15k", false},
		{15000, 1, "Temple Helper", "15k-30k", false},
		{47230, 3, "Annakut Assistant", "45k-60k", false},
		{104999, 6, "Bhog Expert", "90k-105k", false},
		{105000, 7, "Maharaj's Blessing", "105k-124k", false},
		{121000, 7, "Maharaj's Blessing", "105k-124k", false},
		{123999, 7, "Maharaj's Blessing", "105k-124k", false},
		{124000, 7, "", "124k+", true},
		{500000, 7, "", "124k+", true},
	}
	for _, c := range cases {
		r := RankFor(c.score)
		if r.Index != c.index || r.Name != c.name || r.Bucket != c.bucket || r.Beaten != c.beaten {
			t.Errorf("RankFor(%d) = %+v, want {%d %q %q %v}", c.score, r, c.index, c.name, c.bucket, c.beaten)
		}
	}
}

func TestBuildRankTable(t *testing.T) {
	cases := []struct {
		name    string
		score   int
		rows    int
		lower   int
		next    string
		hasNext bool
	}{
		{"first_rank", 0, 2, 0, "15k-30k", true},
		{"annakut_assistant", 47230, 5, 3, "60k-75k", true},
		{"bhog_expert", 95000, 8, 6, "105k-124k", true},
		{"maharaj", 110000, 9, 7, "124k+", true},
		{"beaten", 130000, 9, 8, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tb := BuildRankTable(c.score, 12)
			if len(tb.Rows) != c.rows {
				t.Fatalf("rows = %d, want %d: %+v", len(tb.Rows), c.rows, tb.Rows)
			}
			lower := 0
			var next *RankRow
			for i, r := range tb.Rows {
				switch r.Kind {
				case RowLower:
					if r.Label != RankNames[lower] {
						t.Fatalf("lower row %d = %q, want %q", i, r.Label, RankNames[lower])
					}
					lower++
				case RowNext:
					next = &tb.Rows[i]
				}
			}
			if lower != c.lower {
				t.Fatalf("lower rows = %d, want %d", lower, c.lower)
			}
			if (next != nil) != c.hasNext {
				t.Fatalf("next row present = %v, want %v", next != nil, c.hasNext)
			}
			if next != nil && next.Bucket != c.next {
				t.Fatalf("next bucket = %q, want %q", next.Bucket, c.next)
			}
		})
	}
}

func TestAnnakutAssistantScenario(t *testing.T) {
	tb := BuildRankTable(47230, 40)
	if tb.Achieved.Index != 3 || tb.Achieved.Name != "Annakut Assistant" || tb.Achieved.Bucket != "45k-60k" {
		t.Fatalf("achieved = %+v", tb.Achieved)
	}
	var achieved RankRow
	for _, r := range tb.Rows {
		if r.Kind == RowAchieved {
			achieved = r
		}
	}
	if achieved.Label != "Congrats! You're a Annakut Assistant!" {
		t.Fatalf("label = %q", achieved.Label)
	}
	if got := GameOverMessage(40); got != "Game over! You collected 40 coins! Press the down arrow to try again." {
		t.Fatalf("message = %q", got)
	}
}
