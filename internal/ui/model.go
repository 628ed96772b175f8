package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"doclint/internal/pipeline"
)

const (
	labelQueued = "queued"
	labelDone   = "done"
	labelError  = "error"
)

// fileRow is one document of the run.
type fileRow struct {
	label  string // path shown to the user
	status string // labelQueued, labelDone, labelError or a stage verb
	// stages that are done or skipped
	finished int
	elapsed  time.Duration
	err      error
}

func (r *fileRow) settled() bool { return r.status == labelDone || r.status == labelError }

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model

	rows   []fileRow
	byFile map[string]int
	// verb of the latest run-level stage event
	phase string
	width int
	done  bool
}

type (
	eventMsg pipeline.Event
	doneMsg  struct{}
)

// NewProgressModel renders the progress of a multi-file lint run. files are
// the keys events carry; rows show them relative to baseDir. The model
// quits once events is closed.
func NewProgressModel(title string, files []string, baseDir string, events <-chan pipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultWidth-4)),
		byFile:  make(map[string]int, len(files)),
		width:   defaultWidth,
	}
	for _, file := range files {
		if _, seen := m.byFile[file]; seen {
			continue
		}
		m.byFile[file] = len(m.rows)
		m.rows = append(m.rows, fileRow{label: pipeline.DisplayName(file, baseDir), status: labelQueued})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.waitEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == pipeline.StatusWorking {
			if verb := stageVerb(ev.Stage); verb != "" {
				m.phase = verb
			}
		}
		return nil
	}
	i, ok := m.byFile[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	// ошибка остаётся до конца
	if row.status == labelError {
		return nil
	}
	row.elapsed += ev.Elapsed
	switch ev.Status {
	case pipeline.StatusQueued:
		*row = fileRow{label: row.label, status: labelQueued}
	case pipeline.StatusWorking:
		row.status = stageVerb(ev.Stage)
	case pipeline.StatusDone, pipeline.StatusSkipped:
		if ev.Stage == pipeline.StageAssemble {
			row.status = labelDone
			row.finished = len(pipeline.Stages())
		} else {
			row.finished = max(row.finished, stageIndex(ev.Stage)+1)
		}
	case pipeline.StatusError:
		row.status = labelError
		row.err = ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

// percent is the share of finished stages over all files; settled files
// count as complete.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	stages := float64(len(pipeline.Stages()))
	var sum float64
	for i := range m.rows {
		if m.rows[i].settled() {
			sum++
			continue
		}
		sum += float64(m.rows[i].finished) / stages
	}
	return sum / float64(len(m.rows))
}

// counts returns settled and failed rows.
func (m *progressModel) counts() (settled, failed int) {
	for i := range m.rows {
		if m.rows[i].settled() {
			settled++
		}
		if m.rows[i].status == labelError {
			failed++
		}
	}
	return settled, failed
}

func stageIndex(stage pipeline.Stage) int {
	for i, st := range pipeline.Stages() {
		if st == stage {
			return i
		}
	}
	return -1
}

var stageVerbs = map[pipeline.Stage]string{
	pipeline.StageExtract:   "extracting",
	pipeline.StageSyntax:    "parsing",
	pipeline.StageTagMatch:  "matching",
	pipeline.StageStructure: "nesting",
	pipeline.StageQuality:   "checking",
	pipeline.StageScore:     "scoring",
	pipeline.StageAssemble:  "scoring",
}

func stageVerb(stage pipeline.Stage) string { return stageVerbs[stage] }
