// Package model provides the shared estimator state management used by every
// trainable component in the advisory core.
//
// Estimators compose a StateManager rather than embedding behavior, and use it
// to guard prediction paths against untrained use:
//
//	type Forest struct {
//		state *model.StateManager
//	}
//
//	func (f *Forest) Predict(...) error {
//		if !f.state.IsFitted() {
//			return agroErrors.NewNotFittedError("Forest", "Predict")
//		}
//		...
//	}
package model

// EstimatorState represents the learning state of a model.
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained.
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained.
	Fitted
)

// BaseState is an embeddable fitted-state tracker for lightweight components
// such as encoders, which do not need dimension bookkeeping.
type BaseState struct {
	// State holds the learning state. Public for gob encoding.
	State EstimatorState
}

// IsFitted returns whether the component has been fitted.
func (b *BaseState) IsFitted() bool {
	return b.State == Fitted
}

// SetFitted marks the component as fitted.
func (b *BaseState) SetFitted() {
	b.State = Fitted
}

// Reset returns the component to its untrained state.
func (b *BaseState) Reset() {
	b.State = NotFitted
}

// StateManager tracks whether an estimator has been fitted and the dimensions
// it was fitted with. The train-once policy of the advisory core means the
// transition NotFitted -> Fitted happens at most once per instance; callers
// re-train only through an explicit new Fit call.
type StateManager struct {
	// State holds the model's learning state. Public for gob encoding.
	State EstimatorState

	// NFeatures is the number of features seen at fit time.
	NFeatures int

	// NSamples is the number of samples seen at fit time.
	NSamples int
}

// NewStateManager creates a StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{State: NotFitted}
}

// IsFitted returns whether the estimator has been fitted with training data.
func (s *StateManager) IsFitted() bool {
	return s.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by estimator implementations
// after successful training, not by end users.
func (s *StateManager) SetFitted() {
	s.State = Fitted
}

// SetDimensions records the feature and sample counts seen at fit time.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// Reset returns the estimator to its initial untrained state.
func (s *StateManager) Reset() {
	s.State = NotFitted
	s.NFeatures = 0
	s.NSamples = 0
}
