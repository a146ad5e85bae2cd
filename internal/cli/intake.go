package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/shop-assist/internal/symptom"
)

// Answer is one question of the intake and the customer's reply.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Transcript is the record of an intake conversation.
type Transcript struct {
	Concern  string   `json:"concern"`
	Category string   `json:"category,omitempty"`
	Answers  []Answer `json:"answers"`
	Complete bool     `json:"complete"`
}

// NewTranscript starts a transcript for the matcher's verdict on concern.
func NewTranscript(concern string, result symptom.Result) Transcript {
	t := Transcript{Concern: concern}
	if result.Matched && result.Category != nil {
		t.Category = result.Category.Name
	}
	return t
}

// Render formats the transcript for the terminal.
func (t Transcript) Render() string {
	var b strings.Builder
	category := t.Category
	if category == "" {
		category = "General"
	}
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Concern:"), t.Concern)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Category:"), category)
	for i, a := range t.Answers {
		answer := a.Answer
		if answer == "" {
			answer = SubtleStyle.Render("(no answer)")
		}
		fmt.Fprintf(&b, "\n%d. %s\n   %s", i+1, a.Question, answer)
	}
	return b.String()
}

// IntakeModel is a bubbletea model that asks each question in turn.
type IntakeModel struct {
	questions  []string
	transcript Transcript
	input      textinput.Model
	index      int
	aborted    bool
}

// NewIntakeModel builds the conversation for a matcher result.
func NewIntakeModel(concern string, result symptom.Result) IntakeModel {
	input := textinput.New()
	input.Placeholder = "Type the customer's answer..."
	input.CharLimit = 500
	input.Width = 60
	input.Focus()

	return IntakeModel{
		questions:  append([]string(nil), result.Questions...),
		transcript: NewTranscript(concern, result),
		input:      input,
	}
}

// Init implements tea.Model.
func (m IntakeModel) Init() tea.Cmd {
	if len(m.questions) == 0 {
		return tea.Quit
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m IntakeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.answer()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m IntakeModel) answer() (tea.Model, tea.Cmd) {
	if m.Done() {
		return m, tea.Quit
	}

	m.transcript.Answers = append(m.transcript.Answers, Answer{
		Question: m.questions[m.index],
		Answer:   strings.TrimSpace(m.input.Value()),
	})
	m.input.SetValue("")
	m.index++

	if m.Done() {
		m.transcript.Complete = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m IntakeModel) View() string {
	if m.aborted {
		return FormatWarning("Intake canceled") + "\n"
	}
	if m.Done() {
		return FormatSuccess(fmt.Sprintf("Intake complete (%d answers)", len(m.transcript.Answers))) + "\n"
	}

	var b strings.Builder
	header := "General intake"
	if m.transcript.Category != "" {
		header = m.transcript.Category
	}
	b.WriteString(FormatTitle(header))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("Question %d of %d", m.index+1, len(m.questions))))
	b.WriteString("\n\n")
	b.WriteString(QuestionStyle.Render(m.questions[m.index]))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(SubtleStyle.Render("enter: next • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether every question has been answered.
func (m IntakeModel) Done() bool {
	return m.index >= len(m.questions)
}

// Aborted reports whether the operator canceled the intake.
func (m IntakeModel) Aborted() bool {
	return m.aborted
}

// Transcript returns the answers collected so far.
func (m IntakeModel) Transcript() Transcript {
	t := m.transcript
	t.Answers = append([]Answer(nil), m.transcript.Answers...)
	return t
}

// RunIntake runs the interactive conversation on a terminal.
func RunIntake(ctx context.Context, model IntakeModel, in io.Reader, out io.Writer) (Transcript, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return model.Transcript(), fmt.Errorf("intake failed: %w", err)
	}
	if m, ok := final.(IntakeModel); ok {
		return m.Transcript(), nil
	}
	return model.Transcript(), nil
}

// RunPlainIntake asks the questions one per line without a full-screen UI.
// It is used when input is not a terminal.
func RunPlainIntake(ctx context.Context, concern string, result symptom.Result, in io.Reader, out io.Writer) (Transcript, error) {
	transcript := NewTranscript(concern, result)
	reader := NewLineReader(in)

	for _, q := range result.Questions {
		if _, err := fmt.Fprintf(out, "%s\n> ", q); err != nil {
			return transcript, err
		}
		line, err := reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return transcript, nil
		}
		if err != nil {
			return transcript, err
		}
		transcript.Answers = append(transcript.Answers, Answer{Question: q, Answer: line})
	}

	transcript.Complete = true
	return transcript, nil
}
