package models

type TodoFrequency string

const (
	TodoDaily   TodoFrequency = "D"
	TodoWeekly  TodoFrequency = "W"
	TodoMonthly TodoFrequency = "M"
	TodoYearly  TodoFrequency = "Y"
)

// todoWeights 实际参与计算的权重：越频繁的痛点分越高
var todoWeights = map[TodoFrequency]int{
	TodoDaily:   3,
	TodoWeekly:  2,
	TodoMonthly: 1,
	TodoYearly:  0,
}

// GuideEntry is one row of the scoring guide shown to users.
type GuideEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// ScoringGuide is the table the builder displays. Its to-do weights run the
// opposite way from the ones Total uses; totals always use todoWeights.
var ScoringGuide = []GuideEntry{
	{Key: "D", Label: "Daily", Score: 1},
	{Key: "W", Label: "Weekly", Score: 2},
	{Key: "M", Label: "Monthly", Score: 3},
	{Key: "Y", Label: "Yearly", Score: 4},
}

// TodoWeights returns a copy of the weights used for totals.
func TodoWeights() map[TodoFrequency]int {
	out := make(map[TodoFrequency]int, len(todoWeights))
	for k, v := range todoWeights {
		out[k] = v
	}
	return out
}

type ThornItem struct {
	Thing         string        `json:"thing"`
	TodoList      TodoFrequency `json:"todoList"`
	MindShare     int           `json:"mindShare"`
	EmotionalTemp int           `json:"emotionalTemp"`
	TAI           bool          `json:"tai"`
	HardToFind    bool          `json:"hardToFind"`
	Total         int           `json:"total"`
}

// Score 痛点总分 = 频率权重 + 占用心智 + 情绪温度 + TAI + 难以找到
func (t ThornItem) Score() int {
	total := todoWeights[t.TodoList] + t.MindShare + t.EmotionalTemp
	if t.TAI {
		total++
	}
	if t.HardToFind {
		total++
	}
	return total
}

func (t ThornItem) withTotal() ThornItem {
	t.Total = t.Score()
	return t
}

type ThornScorecard []ThornItem

// NewThorn returns a thorn with the builder's defaults and its total filled in.
func NewThorn(thing string) ThornItem {
	return ThornItem{
		Thing:         thing,
		TodoList:      TodoDaily,
		MindShare:     1,
		EmotionalTemp: 1,
	}.withTotal()
}

// Add returns a copy of the scorecard with item appended.
func (s ThornScorecard) Add(item ThornItem) ThornScorecard {
	out := make(ThornScorecard, 0, len(s)+1)
	out = append(out, s...)
	return append(out, item.withTotal())
}

// Update applies fn to item i of a copy and recomputes its total.
// An out-of-range index returns the copy unchanged.
func (s ThornScorecard) Update(i int, fn func(*ThornItem)) ThornScorecard {
	out := append(ThornScorecard(nil), s...)
	if i < 0 || i >= len(out) {
		return out
	}
	fn(&out[i])
	out[i] = out[i].withTotal()
	return out
}

func (s ThornScorecard) Remove(i int) ThornScorecard {
	if i < 0 || i >= len(s) {
		return append(ThornScorecard(nil), s...)
	}
	out := make(ThornScorecard, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// TopScorer returns the index of the highest total, the first on ties, or -1 when empty.
func (s ThornScorecard) TopScorer() int {
	if len(s) == 0 {
		return -1
	}
	best := 0
	for i, item := range s {
		if item.Total > s[best].Total {
			best = i
		}
	}
	return best
}

// Recompute returns a copy with every total recalculated.
func (s ThornScorecard) Recompute() ThornScorecard {
	out := make(ThornScorecard, len(s))
	for i, item := range s {
		out[i] = item.withTotal()
	}
	return out
}
