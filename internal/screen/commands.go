package screen

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/session"
)

// GenerationProgressMsg reports generation progress. Next waits for the
// following message of the same run.
type GenerationProgressMsg struct {
	Epoch     string
	Generated int
	Next      tea.Cmd
}

// GenerationDoneMsg carries the result of a generation run.
type GenerationDoneMsg struct {
	Result session.GenerationResult
}

// GradingDoneMsg carries the result of a grading job.
type GradingDoneMsg struct {
	Outcome session.GradeOutcome
}

// RunGeneration starts req in the background and returns a command that
// delivers its progress and completion messages.
func RunGeneration(env *Env, req session.GenerationRequest) tea.Cmd {
	ctx := env.runContext()
	run := &generationRun{
		epoch:    req.Epoch,
		progress: make(chan int, 1),
		done:     make(chan GenerationDoneMsg, 1),
	}

	go func() {
		res := env.Session.RunGeneration(ctx, req, questiongen.ProgressFunc(run.report))
		run.done <- GenerationDoneMsg{Result: res}
	}()

	return run.wait()
}

// generationRun carries the messages of one generation run. Progress is
// coalesced into a single slot: a report replaces any count the UI has not
// read yet, so the next read always sees the latest value.
type generationRun struct {
	epoch    string
	mu       sync.Mutex
	progress chan int
	done     chan GenerationDoneMsg
}

func (r *generationRun) report(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.progress:
	default:
	}
	r.progress <- n
}

// wait returns a command that reads the next message of the run. Progress
// messages carry a command for the one after.
func (r *generationRun) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-r.progress:
			return GenerationProgressMsg{Epoch: r.epoch, Generated: n, Next: r.wait()}
		case msg := <-r.done:
			return msg
		}
	}
}

// RunGrading runs job in the background. The record is persisted even if
// the UI context is cancelled.
func RunGrading(env *Env, job *session.GradeJob) tea.Cmd {
	if job == nil {
		return nil
	}
	ctx := context.WithoutCancel(env.Ctx)
	return func() tea.Msg {
		return GradingDoneMsg{Outcome: env.Session.RunGrading(ctx, job)}
	}
}
