package scoreboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyscore/internal/model"
)

type RulesSuite struct {
	suite.Suite
	doc *model.Document
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) SetupTest() {
	s.doc = model.NewDocument()
}

// seed adds players and actions in the given order
func (s *RulesSuite) seed(players []string, actions map[string]int, order []string) {
	for _, p := range players {
		s.Require().NoError(AddPlayer(s.doc, p))
	}
	for _, a := range order {
		s.Require().NoError(AddAction(s.doc, a, actions[a]))
	}
}

func (s *RulesSuite) score(player string) int {
	points, ok := s.doc.Players.Get(player)
	s.Require().True(ok, "player %s missing", player)
	return points
}

// AddPlayer tests

func (s *RulesSuite) TestAddPlayerStartsAtZero() {
	s.Require().NoError(AddPlayer(s.doc, "Ada"))

	s.Equal(0, s.score("Ada"))
	s.Equal([]string{}, s.doc.UsedActions["Ada"])
}

func (s *RulesSuite) TestAddPlayerRejectsDuplicate() {
	s.Require().NoError(AddPlayer(s.doc, "Ada"))
	before := s.doc.Clone()

	err := AddPlayer(s.doc, "Ada")
	s.ErrorIs(err, model.ErrDuplicatePlayer)
	s.ErrorIs(err, model.ErrDuplicate)
	s.Equal(before, s.doc)
}

func (s *RulesSuite) TestAddPlayerRejectsEmptyName() {
	before := s.doc.Clone()

	s.ErrorIs(AddPlayer(s.doc, ""), model.ErrInvalidInput)
	s.ErrorIs(AddPlayer(s.doc, "   "), model.ErrInvalidInput)
	s.Equal(before, s.doc)
}

func (s *RulesSuite) TestAddPlayerKeepsNameVerbatim() {
	s.Require().NoError(AddPlayer(s.doc, " Ada "))
	s.Require().NoError(AddPlayer(s.doc, "Ada/Bob"))
	s.Equal([]string{" Ada ", "Ada/Bob"}, s.doc.Players.Names())
}

func (s *RulesSuite) TestAddPlayerKeepsInsertionOrder() {
	s.seed([]string{"Zed", "Ada", "Mia"}, nil, nil)
	s.Equal([]string{"Zed", "Ada", "Mia"}, s.doc.Players.Names())
}

// AddAction tests

func (s *RulesSuite) TestAddActionAllowsNegativeAndZeroPoints() {
	s.Require().NoError(AddAction(s.doc, "Fall over", -5))
	s.Require().NoError(AddAction(s.doc, "Wave", 0))

	points, _ := s.doc.Actions.Get("Fall over")
	s.Equal(-5, points)
	points, _ = s.doc.Actions.Get("Wave")
	s.Equal(0, points)
}

func (s *RulesSuite) TestAddActionRejectsEmptyName() {
	s.ErrorIs(AddAction(s.doc, "", 10), model.ErrEmptyName)
	s.ErrorIs(AddAction(s.doc, "\t ", 10), model.ErrEmptyName)
	s.Equal(0, s.doc.Actions.Len())
}

func (s *RulesSuite) TestAddActionOverwritesInPlaceAndKeepsUsedStatus() {
	s.seed([]string{"Ada"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})
	_, err := Assign(s.doc, "Ada", "Sing", "22:00:00")
	s.Require().NoError(err)

	s.Require().NoError(AddAction(s.doc, "Sing", 20))

	points, _ := s.doc.Actions.Get("Sing")
	s.Equal(20, points)
	s.Equal([]string{"Sing", "Dance"}, s.doc.Actions.Names())
	s.True(s.doc.HasUsed("Ada", "Sing"))
	s.Equal(10, s.score("Ada"), "redefining points must not rescore")
}

// RenameAction tests

func (s *RulesSuite) TestRenameActionRewritesUsedLists() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})
	_, err := Assign(s.doc, "Ada", "Dance", "22:00:00")
	s.Require().NoError(err)

	s.Require().NoError(RenameAction(s.doc, "Dance", "Boogie", 7))

	s.False(s.doc.Actions.Has("Dance"))
	points, _ := s.doc.Actions.Get("Boogie")
	s.Equal(7, points)
	s.Equal([]string{"Boogie"}, s.doc.UsedActions["Ada"])
	s.Equal([]string{}, s.doc.UsedActions["Bob"])
	s.Equal([]string{"Sing"}, AvailableActions(s.doc, "Ada"))
}

func (s *RulesSuite) TestRenameActionSameNameUpdatesPoints() {
	s.seed(nil, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})

	s.Require().NoError(RenameAction(s.doc, "Sing", "Sing", 12))

	points, _ := s.doc.Actions.Get("Sing")
	s.Equal(12, points)
	s.Equal([]string{"Sing", "Dance"}, s.doc.Actions.Names())
}

func (s *RulesSuite) TestRenameActionPreservesScoresAndHistory() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})
	_, _ = Assign(s.doc, "Ada", "Dance", "22:00:00")
	_, _ = Assign(s.doc, "Bob", "Sing", "22:01:00")
	_, _ = Assign(s.doc, "Bob", "Dance", "22:02:00")
	historyBefore := append([]model.Event(nil), s.doc.History...)
	totalsBefore := totalsFromHistory(s.doc.History)

	s.Require().NoError(RenameAction(s.doc, "Dance", "Boogie", 99))

	s.Equal(historyBefore, s.doc.History)
	s.Equal(totalsBefore, totalsFromHistory(s.doc.History))
	s.Equal(5, s.score("Ada"))
	s.Equal(15, s.score("Bob"))
}

func (s *RulesSuite) TestRenameActionUnknownFails() {
	before := s.doc.Clone()
	s.ErrorIs(RenameAction(s.doc, "Nope", "Still nope", 1), model.ErrActionNotFound)
	s.Equal(before, s.doc)
}

func (s *RulesSuite) TestRenameActionToExistingNameFailsUnchanged() {
	s.seed([]string{"Ada"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})
	before := s.doc.Clone()

	s.ErrorIs(RenameAction(s.doc, "Dance", "Sing", 1), model.ErrDuplicateAction)
	s.Equal(before, s.doc)
}

func (s *RulesSuite) TestRenameActionToEmptyNameFailsUnchanged() {
	s.seed(nil, map[string]int{"Sing": 10}, []string{"Sing"})
	before := s.doc.Clone()

	s.ErrorIs(RenameAction(s.doc, "Sing", "", 1), model.ErrEmptyName)
	s.ErrorIs(RenameAction(s.doc, "Sing", "  ", 1), model.ErrEmptyName)
	s.Equal(before, s.doc)
}

// DeleteAction tests

func (s *RulesSuite) TestDeleteActionRemovesFromEveryUsedList() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})
	_, _ = Assign(s.doc, "Ada", "Sing", "22:00:00")
	_, _ = Assign(s.doc, "Bob", "Sing", "22:01:00")
	_, _ = Assign(s.doc, "Bob", "Dance", "22:02:00")
	historyBefore := append([]model.Event(nil), s.doc.History...)

	s.Require().NoError(DeleteAction(s.doc, "Sing"))

	s.False(s.doc.Actions.Has("Sing"))
	for _, player := range s.doc.Players.Names() {
		s.NotContains(AvailableActions(s.doc, player), "Sing")
		s.NotContains(s.doc.UsedActions[player], "Sing")
	}
	s.Equal([]string{"Dance"}, s.doc.UsedActions["Bob"])
	s.Equal(historyBefore, s.doc.History)
	s.Equal(10, s.score("Ada"))
	s.Equal(15, s.score("Bob"))
}

func (s *RulesSuite) TestDeleteActionUnknownFails() {
	s.ErrorIs(DeleteAction(s.doc, "Sing"), model.ErrActionNotFound)
}

// Assign tests

func (s *RulesSuite) TestAssignCreditsAndConsumes() {
	s.seed([]string{"Ada"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})

	points, err := Assign(s.doc, "Ada", "Sing", "23:00:00")
	s.Require().NoError(err)

	s.Equal(10, points)
	s.Equal(10, s.score("Ada"))
	s.NotContains(AvailableActions(s.doc, "Ada"), "Sing")
	s.Equal([]model.Event{{Time: "23:00:00", Player: "Ada", Action: "Sing", Points: 10}}, s.doc.History)
}

func (s *RulesSuite) TestAssignNegativePoints() {
	s.seed([]string{"Ada"}, map[string]int{"Spill drink": -3}, []string{"Spill drink"})

	points, err := Assign(s.doc, "Ada", "Spill drink", "23:00:00")
	s.Require().NoError(err)
	s.Equal(-3, points)
	s.Equal(-3, s.score("Ada"))
}

func (s *RulesSuite) TestAssignTwiceFailsUnchanged() {
	s.seed([]string{"Ada"}, map[string]int{"Sing": 10}, []string{"Sing"})
	_, err := Assign(s.doc, "Ada", "Sing", "23:00:00")
	s.Require().NoError(err)
	before := s.doc.Clone()

	_, err = Assign(s.doc, "Ada", "Sing", "23:01:00")
	s.ErrorIs(err, model.ErrAlreadyUsed)
	s.Equal(10, s.score("Ada"))
	s.Len(s.doc.History, 1)
	s.Equal(before, s.doc)
}

func (s *RulesSuite) TestAssignSameActionToDifferentPlayers() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10}, []string{"Sing"})

	_, err := Assign(s.doc, "Ada", "Sing", "23:00:00")
	s.Require().NoError(err)
	_, err = Assign(s.doc, "Bob", "Sing", "23:01:00")
	s.Require().NoError(err)

	s.Equal(10, s.score("Bob"))
}

func (s *RulesSuite) TestAssignUnknownPlayerOrAction() {
	s.seed([]string{"Ada"}, map[string]int{"Sing": 10}, []string{"Sing"})
	before := s.doc.Clone()

	_, err := Assign(s.doc, "Bob", "Sing", "23:00:00")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.ErrorIs(err, model.ErrNotFound)

	_, err = Assign(s.doc, "Ada", "Juggle", "23:00:00")
	s.ErrorIs(err, model.ErrActionNotFound)
	s.ErrorIs(err, model.ErrNotFound)

	s.Equal(before, s.doc)
}

func (s *RulesSuite) TestAssignUsesCurrentPointsNotRetroactive() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10}, []string{"Sing"})
	_, _ = Assign(s.doc, "Ada", "Sing", "23:00:00")

	s.Require().NoError(RenameAction(s.doc, "Sing", "Sing", 3))
	_, _ = Assign(s.doc, "Bob", "Sing", "23:01:00")

	s.Equal(10, s.score("Ada"))
	s.Equal(3, s.score("Bob"))
}

// AvailableActions tests

func (s *RulesSuite) TestAvailableActionsPreservesActionOrder() {
	s.seed([]string{"Ada"}, map[string]int{"C": 1, "A": 2, "B": 3}, []string{"C", "A", "B"})
	_, _ = Assign(s.doc, "Ada", "A", "23:00:00")

	s.Equal([]string{"C", "B"}, AvailableActions(s.doc, "Ada"))
}

func (s *RulesSuite) TestAvailableActionsIsPure() {
	s.seed([]string{"Ada"}, map[string]int{"Sing": 1}, []string{"Sing"})
	before := s.doc.Clone()

	_ = AvailableActions(s.doc, "Ada")
	_ = AvailableActions(s.doc, "Nobody")
	s.Equal(before, s.doc)
}

// Leaderboard tests

func (s *RulesSuite) TestLeaderboardSortsDescendingAndStable() {
	s.seed([]string{"Ada", "Bob", "Cy", "Dee"},
		map[string]int{"Big": 10, "Small": 3, "Oops": -4},
		[]string{"Big", "Small", "Oops"})
	_, _ = Assign(s.doc, "Cy", "Big", "23:00:00")
	_, _ = Assign(s.doc, "Ada", "Small", "23:00:01")
	_, _ = Assign(s.doc, "Dee", "Small", "23:00:02")
	_, _ = Assign(s.doc, "Bob", "Oops", "23:00:03")

	board := Leaderboard(s.doc)

	s.Equal([]model.Standing{
		{Rank: 1, Player: "Cy", Score: 10},
		{Rank: 2, Player: "Ada", Score: 3},
		{Rank: 3, Player: "Dee", Score: 3},
		{Rank: 4, Player: "Bob", Score: -4},
	}, board)
	for i := 1; i < len(board); i++ {
		s.GreaterOrEqual(board[i-1].Score, board[i].Score)
	}
}

func (s *RulesSuite) TestLeaderboardAllTiedKeepsInsertionOrder() {
	s.seed([]string{"Zed", "Ada", "Mia"}, nil, nil)

	board := Leaderboard(s.doc)
	s.Equal("Zed", board[0].Player)
	s.Equal("Ada", board[1].Player)
	s.Equal("Mia", board[2].Player)
}

func (s *RulesSuite) TestLeaderboardExtremeScores() {
	s.seed([]string{"Low", "High", "Floor"},
		map[string]int{"Penalty": -10, "Jackpot": math.MaxInt - 5, "Abyss": math.MinInt + 1},
		[]string{"Penalty", "Jackpot", "Abyss"})
	_, err := Assign(s.doc, "Low", "Penalty", "23:00:00")
	s.Require().NoError(err)
	_, err = Assign(s.doc, "High", "Jackpot", "23:00:01")
	s.Require().NoError(err)
	_, err = Assign(s.doc, "Floor", "Abyss", "23:00:02")
	s.Require().NoError(err)

	board := Leaderboard(s.doc)

	s.Equal([]model.Standing{
		{Rank: 1, Player: "High", Score: math.MaxInt - 5},
		{Rank: 2, Player: "Low", Score: -10},
		{Rank: 3, Player: "Floor", Score: math.MinInt + 1},
	}, board)
}

func (s *RulesSuite) TestLeaderboardEmpty() {
	s.Empty(Leaderboard(s.doc))
}

// Reset tests

func (s *RulesSuite) TestResetClearsProgressOnly() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10, "Dance": 5}, []string{"Sing", "Dance"})
	hash := "deadbeef"
	s.doc.AdminPassword = &hash
	_, _ = Assign(s.doc, "Ada", "Sing", "23:00:00")
	_, _ = Assign(s.doc, "Bob", "Dance", "23:00:01")
	playersBefore := s.doc.Players.Names()
	actionsBefore := s.doc.Actions.Entries()

	Reset(s.doc)

	s.Equal(playersBefore, s.doc.Players.Names())
	s.Equal(actionsBefore, s.doc.Actions.Entries())
	for _, p := range s.doc.Players.Names() {
		s.Equal(0, s.score(p))
		s.Equal([]string{}, s.doc.UsedActions[p])
	}
	s.Empty(s.doc.History)
	s.Require().NotNil(s.doc.AdminPassword)
	s.Equal("deadbeef", *s.doc.AdminPassword)
}

// RecentHistory tests

func (s *RulesSuite) TestRecentHistoryMostRecentFirst() {
	actions := map[string]int{}
	var order []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		actions[name] = 1
		order = append(order, name)
	}
	s.seed([]string{"Ada"}, actions, order)
	for _, name := range order {
		_, err := Assign(s.doc, "Ada", name, "23:00:00")
		s.Require().NoError(err)
	}

	recent := RecentHistory(s.doc, DefaultHistoryLimit)

	s.Len(recent, 8)
	s.Equal("j", recent[0].Action)
	s.Equal("c", recent[7].Action)
	s.Len(s.doc.History, 10, "storage keeps everything")
}

func (s *RulesSuite) TestRecentHistoryShorterThanLimit() {
	s.seed([]string{"Ada"}, map[string]int{"a": 1, "b": 2}, []string{"a", "b"})
	_, _ = Assign(s.doc, "Ada", "a", "23:00:00")
	_, _ = Assign(s.doc, "Ada", "b", "23:00:01")

	recent := RecentHistory(s.doc, 8)
	s.Len(recent, 2)
	s.Equal("b", recent[0].Action)
	s.Empty(RecentHistory(s.doc, 0))
}

// Summary tests

func (s *RulesSuite) TestSummarize() {
	s.seed([]string{"Ada", "Bob"}, map[string]int{"Sing": 10, "Oops": -2}, []string{"Sing", "Oops"})
	_, _ = Assign(s.doc, "Ada", "Sing", "23:00:00")
	_, _ = Assign(s.doc, "Bob", "Oops", "23:00:01")
	_, _ = Assign(s.doc, "Ada", "Oops", "23:00:02")

	summary := Summarize(s.doc)

	s.Equal(2, summary.PlayerCount)
	s.Equal(2, summary.ActionCount)
	s.Equal(3, summary.EventCount)
	s.Equal(6, summary.PointsAwarded)
	s.Equal([]model.PlayerSummary{
		{Player: "Ada", Score: 8, Completed: 2, Remaining: 0},
		{Player: "Bob", Score: -2, Completed: 1, Remaining: 1},
	}, summary.Players)
}

// Scenarios

func (s *RulesSuite) TestScenarioFirstAssignment() {
	s.Require().NoError(AddPlayer(s.doc, "Ada"))
	s.Require().NoError(AddAction(s.doc, "Sing", 10))

	points, err := Assign(s.doc, "Ada", "Sing", "23:59:00")
	s.Require().NoError(err)

	s.Equal(10, points)
	s.Equal(10, s.score("Ada"))
	s.Equal([]string{}, AvailableActions(s.doc, "Ada"))
	s.Equal([]model.Event{{Time: "23:59:00", Player: "Ada", Action: "Sing", Points: 10}}, s.doc.History)
}

func (s *RulesSuite) TestScenarioRenameDance() {
	s.Require().NoError(AddPlayer(s.doc, "Ada"))
	s.Require().NoError(AddAction(s.doc, "Sing", 10))
	s.Require().NoError(AddAction(s.doc, "Dance", 5))
	_, err := Assign(s.doc, "Ada", "Dance", "23:59:30")
	s.Require().NoError(err)

	s.Require().NoError(RenameAction(s.doc, "Dance", "Boogie", 7))

	s.Equal([]model.Entry{{Name: "Sing", Points: 10}, {Name: "Boogie", Points: 7}}, s.doc.Actions.Entries())
	s.Equal([]string{"Boogie"}, s.doc.UsedActions["Ada"])
	s.Equal(5, s.score("Ada"))
}

func totalsFromHistory(events []model.Event) map[string]int {
	totals := map[string]int{}
	for _, e := range events {
		totals[e.Player] += e.Points
	}
	return totals
}
