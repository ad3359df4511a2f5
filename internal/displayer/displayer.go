package displayer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/models"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Displayer handles the TUI around a midas.Detector.
// It exposes methods to run the UI and refresh periodic data.
type Displayer struct {
	app      *tview.Application
	tabs     *tview.Pages
	detector midas.Detector
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.RWMutex
	status models.Status

	// UI elements cached for updates
	concentrationText *tview.TextView
	alarmText         *tview.TextView
	stateText         *tview.TextView
	temperatureText   *tview.TextView
	flowText          *tview.TextView
	cellLifeText      *tview.TextView
	statusText        *tview.TextView
	helpText          *tview.TextView
	activeFaultText   *tview.TextView
}

func New(detector midas.Detector) *Displayer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Displayer{
		app:      tview.NewApplication(),
		tabs:     tview.NewPages(),
		detector: detector,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (d *Displayer) Run() error {
	// start detector
	if err := d.detector.Start(d.ctx); err != nil {
		return err
	}
	// build UI
	dashboard := d.buildDashboard()
	faults := d.buildFaults()

	// header area: title, status, help
	title := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("midas - Honeywell Midas gas detector monitor")
	d.statusText = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)
	d.helpText = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("Keys: 1 Dashboard  2 Faults  q Quit")

	headerFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	headerFlex.AddItem(title, 1, 0, false)
	headerFlex.AddItem(d.statusText, 1, 0, false)
	headerFlex.AddItem(d.helpText, 1, 0, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(headerFlex, 3, 0, false)

	d.tabs.AddPage("dashboard", dashboard, true, true)
	d.tabs.AddPage("faults", faults, true, false)

	mainFlex.AddItem(d.tabs, 0, 1, true)

	d.app.SetRoot(mainFlex, true)
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			d.Shutdown()
			return nil
		case '1':
			d.tabs.SwitchToPage("dashboard")
			return nil
		case '2':
			d.tabs.SwitchToPage("faults")
			return nil
		}
		return event
	})

	d.refresh()
	d.updateValues()

	// central BeforeDraw to update UI elements
	d.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		d.updateValues()
		return false
	})

	// refresh loop
	go d.refreshLoop()

	return d.app.Run()
}

func (d *Displayer) Shutdown() {
	d.cancel()
	d.detector.Stop()
	d.app.Stop()
}

func (d *Displayer) buildDashboard() *tview.Flex {
	d.concentrationText = tview.NewTextView().SetDynamicColors(true)
	d.alarmText = tview.NewTextView().SetDynamicColors(true)
	d.stateText = tview.NewTextView().SetDynamicColors(true)
	d.temperatureText = tview.NewTextView().SetDynamicColors(true)
	d.flowText = tview.NewTextView().SetDynamicColors(true)
	d.cellLifeText = tview.NewTextView().SetDynamicColors(true)

	infoFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	infoFlex.AddItem(d.concentrationText, 1, 0, false)
	infoFlex.AddItem(d.alarmText, 1, 0, false)
	infoFlex.AddItem(d.stateText, 1, 0, false)
	infoFlex.AddItem(d.temperatureText, 1, 0, false)
	infoFlex.AddItem(d.flowText, 1, 0, false)
	infoFlex.AddItem(d.cellLifeText, 1, 0, false)

	return infoFlex
}

func (d *Displayer) buildFaults() *tview.Flex {
	d.activeFaultText = tview.NewTextView().SetDynamicColors(true)

	tbl := tview.NewTable().SetBorders(true)
	tbl.SetCell(0, 0, tview.NewTableCell("Code").SetSelectable(false).SetAlign(tview.AlignCenter))
	tbl.SetCell(0, 1, tview.NewTableCell("Description").SetSelectable(false).SetAlign(tview.AlignCenter))
	tbl.SetCell(0, 2, tview.NewTableCell("Recovery").SetSelectable(false).SetAlign(tview.AlignCenter))
	for i, e := range models.AllFaults() {
		tbl.SetCell(i+1, 0, tview.NewTableCell(e.Code))
		tbl.SetCell(i+1, 1, tview.NewTableCell(e.Description))
		tbl.SetCell(i+1, 2, tview.NewTableCell(e.Recovery))
	}
	flex := tview.NewFlex().SetDirection(tview.FlexRow)
	flex.AddItem(d.activeFaultText, 1, 0, false)
	flex.AddItem(tbl, 0, 1, true)
	return flex
}

func (d *Displayer) updateValues() {
	d.mu.RLock()
	status := d.status
	d.mu.RUnlock()

	d.concentrationText.SetText(fmt.Sprintf("Concentration: %.4g %s", status.Concentration, status.UnitName))
	d.alarmText.SetText(fmt.Sprintf("Alarm: %s", colorAlarm(status.Alarm)))
	d.stateText.SetText(fmt.Sprintf("State: %s", status.StateName))
	d.temperatureText.SetText(fmt.Sprintf("Temperature (C): %d", status.Temperature))
	d.flowText.SetText(fmt.Sprintf("Flow (cc/min): %d", status.Flow))
	d.cellLifeText.SetText(fmt.Sprintf("Cell life: %.1f%%", status.CellLife))

	if status.Fault.Status == models.FaultNone {
		d.activeFaultText.SetText("Active fault: [green]none[white]")
	} else {
		d.activeFaultText.SetText(fmt.Sprintf("Active fault: [red]%s[white] %s",
			status.Fault.Code, status.Fault.Description))
	}

	d.helpText.SetText("[1 - Dashboard] [2 - Faults] [q - Quit]")

	if d.statusText != nil {
		conn := "[red]disconnected[white]"
		if d.detector.IsConnected() {
			conn = "[green]connected[white]"
		}
		d.statusText.SetText(fmt.Sprintf("Status: %s", conn))
	}
}

func colorAlarm(a models.AlarmLevel) string {
	switch a {
	case models.AlarmHigh:
		return "[red]high[white]"
	case models.AlarmLow:
		return "[yellow]low[white]"
	default:
		return "[green]none[white]"
	}
}

// refresh reads the detector into the cached status. A failed read
// keeps the last values but flags the snapshot disconnected.
func (d *Displayer) refresh() {
	status, err := d.detector.Read(d.ctx)
	d.mu.Lock()
	if err != nil {
		d.status.Connected = false
	} else {
		d.status = status
	}
	d.mu.Unlock()
}

func (d *Displayer) refreshLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.refresh()
			// force redraw (BeforeDraw handles the widgets)
			d.app.QueueUpdateDraw(func() {})
		}
	}
}
