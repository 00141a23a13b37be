package pipeline

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Stage is one pipeline step. A returned error is fatal to the run and
// bubbles up to the task scheduler; business rejection is expressed by
// setting Decision and StopPipeline on the state instead.
type Stage struct {
	Name string
	Run  func(ctx context.Context, s *State) error
}

// Executor runs an ordered list of stages over a State. The graphs in
// this service are always linear with early exit, so a fixed loop with
// a StopPipeline check is all the machinery needed.
type Executor struct {
	name   string
	stages []Stage
}

func NewExecutor(name string, stages ...Stage) *Executor {
	return &Executor{name: name, stages: stages}
}

func (e *Executor) Run(ctx context.Context, s *State) error {
	for _, stage := range e.stages {
		if s.StopPipeline {
			log.WithFields(log.Fields{
				"graph": e.name,
				"stage": stage.Name,
			}).Debug("pipeline stopped, skipping remaining stages")
			break
		}

		log.WithFields(log.Fields{"graph": e.name, "stage": stage.Name}).Debug("running stage")
		if err := stage.Run(ctx, s); err != nil {
			return fmt.Errorf("%s/%s: %w", e.name, stage.Name, err)
		}
	}
	return nil
}
