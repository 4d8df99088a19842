package system

import "context"

type NetInfo interface {
	IP(ctx context.Context) (string, error)
}

type NoopNetInfo struct{}

func (NoopNetInfo) IP(ctx context.Context) (string, error) { return "", nil }

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}
