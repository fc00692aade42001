package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/calendar"
	"github.com/mjimenar/wayfarer/internal/drop"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

const (
	bankWidth       = 24
	bankWidthNarrow = 16
	timeColWidth    = 6
	headerRows      = 3 // title, blank, day headers
)

// View renders the full screen and rebuilds the hit map so mouse coordinates
// always match what is drawn.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.loading {
		return m.styles.FooterHint.Render("Loading trip…")
	}
	if m.trip == nil {
		return m.renderFooter()
	}

	m.hitMap.Reset()

	bankW := bankWidth
	if m.width < m.cfg.UI.NarrowWidth {
		bankW = bankWidthNarrow
	}
	calX := bankW + 1
	calW := m.width - calX

	gridRows := m.height - headerRows - 2 // footer takes two lines

	bank := m.renderBank(bankW, gridRows+1)

	var cal []string
	switch m.vm.CurrentView() {
	case calendar.ViewDay:
		cal = m.renderDay(calX, calW, gridRows)
	case calendar.ViewMonth:
		cal = m.renderMonth(calX, calW, gridRows)
	default:
		cal = m.renderWeek(calX, calW, gridRows)
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s — %s", m.trip.Name, m.vm.Title())))
	b.WriteString("\n\n")

	rows := len(cal)
	if len(bank) > rows {
		rows = len(bank)
	}
	for i := 0; i < rows; i++ {
		var left, right string
		if i < len(bank) {
			left = bank[i]
		}
		if i < len(cal) {
			right = cal[i]
		}
		b.WriteString(pad(left, bankW))
		b.WriteString("│")
		b.WriteString(right)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderBank draws the unscheduled sidebar and registers its drop region.
func (m Model) renderBank(width, height int) []string {
	items := calendar.Bank(m.activities)

	// The whole sidebar accepts drops back into the bank.
	m.hitMap.Add(Region{X: 0, Y: 2, W: width, H: height, Target: drop.BankTarget{}})

	lines := []string{m.styles.BankHeader.Render(pad(fmt.Sprintf("Bank (%d)", len(items)), width))}
	for i, a := range items {
		y := 2 + len(lines)
		style := m.styles.BankItem
		if m.mode == ModeNormal && i == m.cursor {
			style = m.styles.BankSelected
		}
		if m.isDragging(a.ID) {
			style = m.styles.EventDragged
		}
		m.hitMap.Add(Region{X: 0, Y: y, W: width, H: 1, Target: drop.BankTarget{}, ActivityID: a.ID})
		lines = append(lines, style.Render(pad("· "+a.Title, width)))
		if len(lines) >= height {
			break
		}
	}
	return lines
}

// renderDay draws the single-day time grid.
func (m Model) renderDay(x, width, height int) []string {
	proj := m.vm.Day(m.activities)
	byHour := groupByStartHour(proj.Activities)

	header := pad("", timeColWidth) + m.dayHeader(proj.Date, width-timeColWidth)
	lines := []string{header}

	cellX := x + timeColWidth
	cellW := width - timeColWidth
	for i, slot := range proj.Slots {
		if len(lines) > height {
			break
		}
		y := headerRows + i
		m.hitMap.Add(Region{
			X: cellX, Y: y, W: cellW, H: 1,
			Target: drop.TimeSlotTarget{Date: proj.Date, Time: slot.Key},
		})
		line := m.styles.TimeColumn.Render(pad(slot.Display, timeColWidth))
		line += m.renderSlotCell(byHour[slot.Hour], proj.Date, slot, cellX, y, cellW)
		lines = append(lines, line)
	}
	return lines
}

// renderWeek draws seven day columns sharing the time grid.
func (m Model) renderWeek(x, width, height int) []string {
	proj := m.vm.Week(m.activities)

	colW := (width - timeColWidth) / 7
	header := pad("", timeColWidth)
	for _, day := range proj.Days {
		header += m.dayHeader(day.Date, colW)
	}
	lines := []string{header}

	byDayHour := make([]map[int][]calendar.Positioned, 7)
	for i, day := range proj.Days {
		byDayHour[i] = groupByStartHour(day.Activities)
	}

	for i, slot := range proj.Slots {
		if len(lines) > height {
			break
		}
		y := headerRows + i
		line := m.styles.TimeColumn.Render(pad(slot.Display, timeColWidth))
		for d, day := range proj.Days {
			cellX := x + timeColWidth + d*colW
			m.hitMap.Add(Region{
				X: cellX, Y: y, W: colW, H: 1,
				Target: drop.TimeSlotTarget{Date: day.Date, Time: slot.Key},
			})
			line += m.renderSlotCell(byDayHour[d][slot.Hour], day.Date, slot, cellX, y, colW)
		}
		lines = append(lines, line)
	}
	return lines
}

// renderSlotCell draws one (day, slot) cell, splitting the width between
// overlapping activities.
func (m Model) renderSlotCell(entries []calendar.Positioned, date time.Time, slot timegrid.Slot, x, y, width int) string {
	if len(entries) == 0 {
		empty := pad("", width)
		if m.isHighlightedSlot(date, slot.Key) {
			return m.styles.CellHighlight.Render(empty)
		}
		return empty
	}

	total := entries[0].TotalColumns
	if total < 1 {
		total = 1
	}
	subW := width / total
	cells := make([]string, total)

	for _, p := range entries {
		style := m.styles.Event
		if p.Column%2 == 1 {
			style = m.styles.EventAlt
		}
		if m.isDragging(p.Activity.ID) {
			style = m.styles.EventDragged
		}
		subX := x + p.Column*subW
		m.hitMap.Add(Region{
			X: subX, Y: y, W: subW, H: 1,
			Target:     drop.TimeSlotTarget{Date: date, Time: slot.Key},
			ActivityID: p.Activity.ID,
		})
		cells[p.Column] = style.Render(pad(p.Activity.Title, subW))
	}

	for i, c := range cells {
		if c == "" {
			cells[i] = pad("", subW)
		}
	}
	out := strings.Join(cells, "")
	// Fill the remainder lost to integer division.
	return out + pad("", width-subW*total)
}

// renderMonth draws the month grid of whole weeks.
func (m Model) renderMonth(x, width, height int) []string {
	monthCap := m.cfg.Calendar.MonthCap
	if m.width < m.cfg.UI.NarrowWidth {
		monthCap = m.cfg.Calendar.MonthCapNarrow
	}
	proj := m.vm.Month(m.activities, monthCap)

	colW := width / 7
	cellH := monthCap + 2 // date line, titles, overflow line

	header := ""
	for d := 0; d < 7; d++ {
		day := proj.Start.AddDate(0, 0, d)
		header += m.styles.DayHeader.Render(pad(day.Format("Mon"), colW))
	}
	lines := []string{header}

	for w, week := range proj.Weeks {
		baseY := headerRows + w*cellH
		if baseY+cellH > headerRows+height {
			break
		}
		rows := make([]string, cellH)
		for d, cell := range week {
			cellX := x + d*colW
			m.hitMap.Add(Region{
				X: cellX, Y: baseY, W: colW, H: cellH,
				Target: drop.DayCellTarget{Date: cell.Date},
			})
			m.renderMonthCell(cell, cellX, baseY, colW, rows)
		}
		lines = append(lines, rows...)
	}
	return lines
}

func (m Model) renderMonthCell(cell calendar.MonthCell, x, y, width int, rows []string) {
	dateStyle := m.styles.DayHeader
	if !cell.InMonth {
		dateStyle = m.styles.OutOfMonthDay
	}
	if timegrid.SameDay(cell.Date, time.Now()) {
		dateStyle = m.styles.TodayHeader
	}
	highlighted := m.isHighlightedDay(cell.Date)

	rows[0] += dateStyle.Render(pad(fmt.Sprintf("%2d", cell.Date.Day()), width))

	for i := 0; i < len(rows)-2; i++ {
		if i < len(cell.Visible) {
			a := cell.Visible[i]
			style := m.styles.Event
			if m.isDragging(a.ID) {
				style = m.styles.EventDragged
			}
			m.hitMap.Add(Region{
				X: x, Y: y + 1 + i, W: width, H: 1,
				Target:     drop.DayCellTarget{Date: cell.Date},
				ActivityID: a.ID,
			})
			rows[1+i] += style.Render(pad(a.Title, width))
			continue
		}
		empty := pad("", width)
		if highlighted {
			empty = m.styles.CellHighlight.Render(empty)
		}
		rows[1+i] += empty
	}

	last := pad("", width)
	if cell.Overflow > 0 {
		last = m.styles.MonthOverflow.Render(pad(fmt.Sprintf("+%d more", cell.Overflow), width))
	} else if highlighted {
		last = m.styles.CellHighlight.Render(last)
	}
	rows[len(rows)-1] += last
}

func (m Model) renderFooter() string {
	if m.mode == ModeAdd {
		return m.input.View() + "\n" + m.styles.FooterHint.Render("enter save · esc cancel")
	}

	hints := "q quit · v view · ←/→ navigate · j/k select · a add · m move"
	if m.mode == ModeMove {
		hints = "arrows place · b bank · enter drop · esc cancel"
	}

	status := ""
	if m.status.message != "" {
		style := m.styles.StatusInfo
		switch m.status.kind {
		case activity.NotifySuccess:
			style = m.styles.StatusSuccess
		case activity.NotifyWarning:
			style = m.styles.StatusWarning
		case activity.NotifyError:
			style = m.styles.StatusError
		}
		status = style.Render(m.status.message)
	}

	return status + "\n" + m.styles.FooterHint.Render(hints)
}

func (m Model) dayHeader(date time.Time, width int) string {
	style := m.styles.DayHeader
	if timegrid.SameDay(date, time.Now()) {
		style = m.styles.TodayHeader
	}
	return style.Render(pad(date.Format("Mon 2"), width))
}

func (m Model) isDragging(id string) bool {
	s := m.controller.Session()
	return s != nil && s.ActivityID == id
}

func (m Model) isHighlightedSlot(date time.Time, key string) bool {
	t, ok := m.highlight.target.(drop.TimeSlotTarget)
	return ok && t.Time == key && timegrid.SameDay(t.Date, date)
}

func (m Model) isHighlightedDay(date time.Time) bool {
	t, ok := m.highlight.target.(drop.DayCellTarget)
	return ok && timegrid.SameDay(t.Date, date)
}

// groupByStartHour indexes positioned activities by their starting hour row.
// Starts before the grid's first hour land in the first row so the activity
// stays visible and clickable.
func groupByStartHour(entries []calendar.Positioned) map[int][]calendar.Positioned {
	byHour := make(map[int][]calendar.Positioned)
	for _, p := range entries {
		h := max(p.Activity.Start.Hour(), timegrid.GridStartHour)
		byHour[h] = append(byHour[h], p)
	}
	return byHour
}

// pad truncates or right-pads s to exactly width display cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "…")
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}
