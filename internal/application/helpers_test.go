package application

import "github.com/stretchr/testify/mock"

func mockAnyContext() interface{} {
	return mock.Anything
}
