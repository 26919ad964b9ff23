package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidFilterWindow, "filter window must be positive")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidFilterWindow, err.Code)
	suite.Equal("filter window must be positive", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeUnauthorized, "origin %s is not allowed", "10.0.0.2")
	suite.Equal(ErrCodeUnauthorized, err.Code)
	suite.Equal("origin 10.0.0.2 is not allowed", err.Message)
}

func (suite *ErrorTestSuite) TestWrapAndString() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeDataSourceUnavailable, "could not connect to data source", cause)
	suite.Equal(cause, err.Cause)
	suite.Equal("[201] could not connect to data source: connection refused", err.Error())
	suite.Equal(cause, err.Unwrap())
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("timeout")
	err := Wrapf(ErrCodeHistoryDealsFailed, cause, "could not fetch deals since %d", 2024)
	suite.Equal("could not fetch deals since 2024", err.Message)
	suite.Equal("[203] could not fetch deals since 2024: timeout", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithoutCause() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeCircuitOpen, GetCode(New(ErrCodeCircuitOpen, "open")))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))

	inner := New(ErrCodeQueryFailed, "query failed")
	outer := Wrap(ErrCodeHistoryDealsFailed, "could not fetch deals", inner)
	// the outermost code wins
	suite.Equal(ErrCodeHistoryDealsFailed, GetCode(outer))
	suite.True(HasCode(outer, ErrCodeHistoryDealsFailed))
	suite.False(HasCode(outer, ErrCodeQueryFailed))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := Wrap(ErrCodeInvalidAllowList, "bad list", errors.New("x"))
	var bridgeErr *Error
	suite.True(As(err, &bridgeErr))
	suite.Equal(ErrCodeInvalidAllowList, bridgeErr.Code)
}

func (suite *ErrorTestSuite) TestMessageOf() {
	suite.Equal("", MessageOf(nil))
	suite.Equal("plain", MessageOf(errors.New("plain")))
	suite.Equal("could not connect to data source",
		MessageOf(Wrap(ErrCodeDataSourceUnavailable, "could not connect to data source", errors.New("dial tcp"))))
}

func (suite *ErrorTestSuite) TestHTTPStatus() {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeUnauthorized, http.StatusForbidden},
		{ErrCodeInvalidFilterWindow, http.StatusBadRequest},
		{ErrCodeDataNotFound, http.StatusNotFound},
		{ErrCodeDataSourceUnavailable, http.StatusInternalServerError},
		{ErrCodeHistoryDealsFailed, http.StatusBadGateway},
		{ErrCodeCircuitOpen, http.StatusBadGateway},
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeServerStartFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Equal(tt.expected, HTTPStatus(tt.code), "code %d", tt.code)
	}
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(201), ErrCodeDataSourceUnavailable)
	suite.Equal(ErrorCode(300), ErrCodeUnauthorized)
	suite.Equal(ErrorCode(400), ErrCodeMonitorUnreachable)
	suite.Equal(ErrorCode(500), ErrCodeServerStartFailed)
}
