// Hand-written test double in the shape of MockGen output.
// Source: autoscaler/internal/runtimeadapter (interfaces: Adapter)

package mocks

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"

	runtimeadapter "autoscaler/internal/runtimeadapter"
)

// MockAdapter is a mock of runtimeadapter.Adapter.
type MockAdapter struct {
	ctrl     *gomock.Controller
	recorder *MockAdapterMockRecorder
}

type MockAdapterMockRecorder struct {
	mock *MockAdapter
}

func NewMockAdapter(ctrl *gomock.Controller) *MockAdapter {
	mock := &MockAdapter{ctrl: ctrl}
	mock.recorder = &MockAdapterMockRecorder{mock}
	return mock
}

func (m *MockAdapter) EXPECT() *MockAdapterMockRecorder {
	return m.recorder
}

func (m *MockAdapter) Start(ctx context.Context, spec runtimeadapter.StartSpec) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Start", ctx, spec)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockAdapterMockRecorder) Start(ctx, spec interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Start", reflect.TypeOf((*MockAdapter)(nil).Start), ctx, spec)
}

func (m *MockAdapter) Inspect(ctx context.Context, id string) (runtimeadapter.RuntimeState, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Inspect", ctx, id)
	ret0, _ := ret[0].(runtimeadapter.RuntimeState)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockAdapterMockRecorder) Inspect(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Inspect", reflect.TypeOf((*MockAdapter)(nil).Inspect), ctx, id)
}

func (m *MockAdapter) Stop(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stop", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockAdapterMockRecorder) Stop(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stop", reflect.TypeOf((*MockAdapter)(nil).Stop), ctx, id)
}
