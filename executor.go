package parcels

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// RecoveryKernel handles a particle that has just left the live
// (Success/Repeat) state. It returns the ErrorCode the particle should
// now be treated as: Success or Delete resolve the step, Repeat asks the
// executor to re-run the stepping Kernel once more, and any other code
// hands the particle to the recovery map again under that new code
// (spec §4.6, §7).
type RecoveryKernel func(p Particle) ErrorCode

func deleteWithLog(p Particle) ErrorCode {
	Logger.Printf("deleting particle id=%d at lon=%v lat=%v time=%v (error %v)",
		p.ID(), p.Lon(), p.Lat(), p.Time(), p.ErrorCode())
	return Delete
}

// DefaultRecoveryMap returns the built-in recovery handlers: particles
// that sample out of bounds or error for any other reason are deleted
// and logged. Callers pass overrides to NewExecutor to recover
// differently, e.g. clamping a particle back inside the domain instead
// of deleting it.
func DefaultRecoveryMap() map[ErrorCode]RecoveryKernel {
	return map[ErrorCode]RecoveryKernel{
		ErrorOutOfBounds: deleteWithLog,
		Error:            deleteWithLog,
	}
}

// Executor advances a ParticleSet under a Kernel, applying the recovery
// state machine to particles that error (spec §4.6, component C6).
type Executor struct {
	recovery map[ErrorCode]RecoveryKernel
	// Parallel, when true, shards each sweep across GOMAXPROCS goroutines
	// using golang.org/x/sync/errgroup (spec §5 "native particle_loop may
	// internally parallelise" — the interpreted path offers the same
	// option, since ParticleSet columns are independent per particle).
	Parallel bool
}

// NewExecutor returns an Executor whose recovery map is
// DefaultRecoveryMap with overrides merged on top.
func NewExecutor(overrides map[ErrorCode]RecoveryKernel) *Executor {
	merged := DefaultRecoveryMap()
	for code, fn := range overrides {
		merged[code] = fn
	}
	return &Executor{recovery: merged}
}

// ExecuteOptions configures one Execute call.
type ExecuteOptions struct {
	// Dt is the signed step size: positive advances time toward EndTime,
	// negative integrates backward.
	Dt float64
	// EndTime is the time every particle is advanced to (or from, if Dt
	// is negative).
	EndTime float64
}

// Execute advances every particle in ps under k from its current time to
// opts.EndTime, sweep by sweep, removing particles marked Delete at the
// end of each sweep (spec §4.6). It returns an error if any particle's
// recovery map reaches a fixed point (ErrFixedPoint) — the original
// treats that as a programmer error in the recovery map, not a
// per-particle failure, so Execute aborts the whole call rather than
// silently dropping the particle.
func (e *Executor) Execute(ctx context.Context, ps *ParticleSet, k *Kernel, opts ExecuteOptions) error {
	if opts.Dt == 0 {
		return fmt.Errorf("parcels: Execute: dt must be nonzero")
	}
	n := ps.Len()
	for i := 0; i < n; i++ {
		ps.Particle(i).SetDt(opts.Dt)
	}

	for ps.Len() > 0 {
		active := activeIndices(ps, opts.EndTime)
		if len(active) == 0 {
			break
		}
		if err := e.sweep(ctx, ps, k, active, opts.EndTime); err != nil {
			return err
		}
		ps.removeMarkedDeleted()
	}
	return nil
}

// ExecuteSteps runs Execute for a fixed number of timesteps of size dt,
// rather than an explicit EndTime: endtime = start_time + timesteps*dt,
// where start_time is the minimum current time among ps's particles (or
// 0 if ps is empty), matching the execute(kernel, timesteps, dt, ...)
// entry point of spec §4.4/§6.
func (e *Executor) ExecuteSteps(ctx context.Context, ps *ParticleSet, k *Kernel, dt float64, timesteps int) error {
	startTime := 0.0
	if ps.Len() > 0 {
		startTime = ps.Particle(0).Time()
		for i := 1; i < ps.Len(); i++ {
			if t := ps.Particle(i).Time(); t < startTime {
				startTime = t
			}
		}
	}
	endTime := startTime + float64(timesteps)*dt
	return e.Execute(ctx, ps, k, ExecuteOptions{Dt: dt, EndTime: endTime})
}

func activeIndices(ps *ParticleSet, endTime float64) []int {
	out := make([]int, 0, ps.Len())
	for i := 0; i < ps.Len(); i++ {
		p := ps.Particle(i)
		if timeRemaining(p, endTime) {
			out = append(out, i)
		}
	}
	return out
}

func timeRemaining(p Particle, endTime float64) bool {
	if p.Dt() > 0 {
		return p.Time() < endTime
	}
	return p.Time() > endTime
}

func (e *Executor) sweep(ctx context.Context, ps *ParticleSet, k *Kernel, indices []int, endTime float64) error {
	if !e.Parallel {
		for _, i := range indices {
			if err := e.stepOne(ps.Particle(i), k, endTime); err != nil {
				return err
			}
		}
		return nil
	}
	g, _ := errgroup.WithContext(ctx)
	for _, i := range indices {
		i := i
		g.Go(func() error {
			return e.stepOne(ps.Particle(i), k, endTime)
		})
	}
	return g.Wait()
}

// stepOne clamps the particle's dt to not overshoot endTime, runs k
// (retrying on Repeat and routing non-live codes through the recovery
// map), and leaves the particle's ErrorCode set to the outcome. The
// clamp is kept as a local and never written back to p.dt (spec §4.6's
// dt_remaining), so a kernel like AdvectionRK45 that adapts p.dt itself
// is unaffected by the final partial step toward endTime.
func (e *Executor) stepOne(p Particle, k *Kernel, endTime float64) error {
	for {
		remaining := endTime - p.Time()
		step := math.Copysign(math.Min(math.Abs(p.Dt()), math.Abs(remaining)), p.Dt())
		code := k.Func(p, step)
		if code == Success {
			p.SetErrorCode(Success)
			return nil
		}
		if code == Repeat {
			continue
		}
		resolved, err := e.recover(p, code)
		if err != nil {
			return err
		}
		if resolved {
			return nil
		}
		// recovery asked for a Repeat: try the kernel again.
	}
}

// recover routes code through the recovery map, following any chain of
// non-terminal codes it returns, until it reaches Success, Delete, or
// Repeat (in which case it reports unresolved so the caller re-runs the
// kernel), or a code with no registered handler (which becomes the
// particle's final state).
func (e *Executor) recover(p Particle, code ErrorCode) (resolved bool, err error) {
	seen := map[ErrorCode]bool{code: true}
	for {
		handler, ok := e.recovery[code]
		if !ok {
			p.SetErrorCode(code)
			return true, nil
		}
		next := handler(p)
		switch next {
		case Success:
			p.SetErrorCode(Success)
			return true, nil
		case Delete:
			p.SetErrorCode(Delete)
			return true, nil
		case Repeat:
			return false, nil
		default:
			if seen[next] {
				return false, fmt.Errorf("parcels: particle id=%d: %w (stuck at %v)", p.ID(), ErrFixedPoint, next)
			}
			seen[next] = true
			code = next
		}
	}
}
