package domain

import (
	"sort"
	"time"
)

// GameRecord is a finished game as the score board stores it. The JSON
// names are the ones the web client already reads and posts.
type GameRecord struct {
	GameNumber  string   `json:"gameNumber" db:"game_number" dynamodbav:"gameNumber"`
	GameType    GameType `json:"gameType" db:"game_type" dynamodbav:"gameType"`
	Player1Name string   `json:"Player1Name" db:"player1_name" dynamodbav:"Player1Name"`
	Player2Name string   `json:"Player2Name" db:"player2_name" dynamodbav:"Player2Name"`
	WinnerName  string   `json:"WinnerName" db:"winner_name" dynamodbav:"WinnerName"`
	// GameDate is milliseconds since the Unix epoch.
	GameDate int64 `json:"GameDate" db:"game_date" dynamodbav:"GameDate"`
}

func NewGameRecord(number string, t GameType, player1, player2 string, winner Side, at time.Time) GameRecord {
	rec := GameRecord{
		GameNumber:  number,
		GameType:    t,
		Player1Name: player1,
		Player2Name: player2,
		GameDate:    at.UnixMilli(),
	}
	switch winner {
	case SideA:
		rec.WinnerName = player1
	case SideB:
		rec.WinnerName = player2
	default:
		rec.WinnerName = DrawName
	}
	return rec
}

type PlayerWins struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

type ScoreSummary struct {
	TotalGames       int          `json:"totalGames"`
	GamesVsComputer  int          `json:"gamesVsComputer"`
	ComputerWins     int          `json:"computerWins"`
	ComputerWinGames []GameRecord `json:"computerWinGames"`
	Wins             []PlayerWins `json:"wins"`
}

// Summarize aggregates the score board. Draws are not counted as wins;
// ties in the win table are ordered by name.
func Summarize(records []GameRecord) ScoreSummary {
	summary := ScoreSummary{
		TotalGames:       len(records),
		ComputerWinGames: []GameRecord{},
		Wins:             []PlayerWins{},
	}
	counts := make(map[string]int)
	for _, rec := range records {
		if IsComputerName(rec.Player2Name) {
			summary.GamesVsComputer++
		}
		if IsComputerName(rec.WinnerName) {
			summary.ComputerWins++
			summary.ComputerWinGames = append(summary.ComputerWinGames, rec)
		}
		if rec.WinnerName != "" && rec.WinnerName != DrawName {
			counts[rec.WinnerName]++
		}
	}
	for name, wins := range counts {
		summary.Wins = append(summary.Wins, PlayerWins{Name: name, Wins: wins})
	}
	sort.Slice(summary.Wins, func(i, j int) bool {
		if summary.Wins[i].Wins != summary.Wins[j].Wins {
			return summary.Wins[i].Wins > summary.Wins[j].Wins
		}
		return summary.Wins[i].Name < summary.Wins[j].Name
	})
	return summary
}
