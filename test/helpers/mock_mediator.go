package helpers

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
)

// MockMediator is a test double for the Mediator interface that records every
// request and answers through SendFunc
type MockMediator struct {
	SendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	callLog  []string
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{callLog: []string{}}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.callLog = append(m.callLog, common.RequestName(request))
	if m.SendFunc != nil {
		return m.SendFunc(ctx, request)
	}
	return nil, fmt.Errorf("no response configured for %s", common.RequestName(request))
}

// Register implements the Mediator interface; registrations are ignored
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

// Use implements the Mediator interface; middleware is ignored
func (m *MockMediator) Use(middleware common.Middleware) {}

// GetCallLog returns the names of the requests sent so far
func (m *MockMediator) GetCallLog() []string {
	return append([]string(nil), m.callLog...)
}
