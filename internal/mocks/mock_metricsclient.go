// Hand-written test double in the shape of MockGen output.
// Source: autoscaler/internal/metricsclient (interfaces: Client)

package mocks

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockMetricsClient is a mock of metricsclient.Client.
type MockMetricsClient struct {
	ctrl     *gomock.Controller
	recorder *MockMetricsClientMockRecorder
}

type MockMetricsClientMockRecorder struct {
	mock *MockMetricsClient
}

func NewMockMetricsClient(ctrl *gomock.Controller) *MockMetricsClient {
	mock := &MockMetricsClient{ctrl: ctrl}
	mock.recorder = &MockMetricsClientMockRecorder{mock}
	return mock
}

func (m *MockMetricsClient) EXPECT() *MockMetricsClientMockRecorder {
	return m.recorder
}

func (m *MockMetricsClient) CPUPercent(ctx context.Context, containerID string) (float64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CPUPercent", ctx, containerID)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockMetricsClientMockRecorder) CPUPercent(ctx, containerID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CPUPercent", reflect.TypeOf((*MockMetricsClient)(nil).CPUPercent), ctx, containerID)
}

func (m *MockMetricsClient) MemoryPercent(ctx context.Context, containerID string) (float64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MemoryPercent", ctx, containerID)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockMetricsClientMockRecorder) MemoryPercent(ctx, containerID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MemoryPercent", reflect.TypeOf((*MockMetricsClient)(nil).MemoryPercent), ctx, containerID)
}
