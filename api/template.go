package api

import (
	"html/template"
	"io"
	"time"

	"cses-tracker/models"
)

const leaderboardPage = `<!DOCTYPE html>
<html>
<head>
    <title>CSES Problem Solving Leaderboard</title>
    <style>
        body {
            font-family: 'Arial', sans-serif;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .leaderboard {
            background: white;
            border-radius: 10px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
            padding: 20px;
        }
        .header {
            text-align: center;
            color: #2c3e50;
            margin-bottom: 30px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-top: 20px;
        }
        th, td {
            padding: 15px;
            text-align: left;
            border-bottom: 1px solid #ddd;
        }
        th {
            background-color: #3498db;
            color: white;
        }
        tr:nth-child(even) {
            background-color: #f9f9f9;
        }
        tr:hover {
            background-color: #f1f1f1;
        }
        .progress-bar {
            width: 200px;
            height: 20px;
            background-color: #eee;
            border-radius: 10px;
            overflow: hidden;
        }
        .progress {
            height: 100%;
            background-color: #2ecc71;
            transition: width 0.5s ease-in-out;
        }
        .timestamp {
            color: #7f8c8d;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="leaderboard">
        <div class="header">
            <h1>CSES Problem Solving Leaderboard</h1>
            <p>Last updated: {{.Timestamp}}</p>
        </div>
        <table>
            <thead>
                <tr>
                    <th>Rank</th>
                    <th>Username</th>
                    <th>Solved Problems</th>
                    <th>Progress</th>
                    <th>Last Updated</th>
                </tr>
            </thead>
            <tbody>
                {{range .Users}}
                <tr>
                    <td>{{.Rank}}</td>
                    <td>{{.Username}}</td>
                    <td>{{.SolvedCount}} / {{.TotalCount}}</td>
                    <td>
                        <div class="progress-bar">
                            <div class="progress" style="width: {{printf "%.1f" .Progress}}%"></div>
                        </div>
                    </td>
                    <td class="timestamp">{{.LastUpdated}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
</body>
</html>
`

var leaderboardTmpl = template.Must(template.New("leaderboard").Parse(leaderboardPage))

type rankedRow struct {
	Rank int
	*models.LeaderboardRow
}

type leaderboardView struct {
	Timestamp string
	Users     []rankedRow
}

// renderLeaderboard writes the ranked HTML table. Rank is positional:
// the rows arrive already sorted.
func renderLeaderboard(w io.Writer, rows []*models.LeaderboardRow, now time.Time) error {
	view := leaderboardView{
		Timestamp: now.Format("2006-01-02 15:04:05"),
		Users:     make([]rankedRow, 0, len(rows)),
	}
	for i, row := range rows {
		view.Users = append(view.Users, rankedRow{Rank: i + 1, LeaderboardRow: row})
	}
	return leaderboardTmpl.Execute(w, view)
}
