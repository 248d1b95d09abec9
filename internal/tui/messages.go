package tui

import tea "github.com/charmbracelet/bubbletea"

// segmentationMsg reports a viewport or visibility change of the chart.
type segmentationMsg struct{}

// normalizedMsg reports that the segment views were renormalized.
type normalizedMsg struct{}

// axisLabelsMsg asks for the time labels to be recomputed.
type axisLabelsMsg struct{}

// eventBufferSize bounds the pending chart events. Events only trigger a
// redraw from the chart's current state, so dropped duplicates lose nothing.
const eventBufferSize = 16

// waitForEvent returns a command that delivers the next chart event, or
// nothing once done is closed.
func waitForEvent(events <-chan tea.Msg, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-done:
			return nil
		}
	}
}
