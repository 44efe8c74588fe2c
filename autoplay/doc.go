// Package autoplay plays Minesweeper against the REST API.
//
// The Strategy looks only at what a player sees. It applies the single-cell
// rules first, then falls back to revealing the hidden cell with the lowest
// estimated mine probability. The Player restarts the session after every
// loss until a game is won or the attempt limit is reached.
//
//	client := autoplay.NewClient("http://localhost:8080")
//	player := autoplay.NewPlayer(client, autoplay.Options{Preset: "easy", MaxAttempts: 10}, logger)
//	result, err := player.Play(ctx)
package autoplay
