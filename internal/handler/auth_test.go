package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codegate/gateway-server-go/internal/model"
	"github.com/codegate/gateway-server-go/internal/service"
	"github.com/codegate/gateway-server-go/internal/util"
)

const (
	testHexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testHexIV  = "0f0e0d0c0b0a09080706050403020100"
)

// Mock repositories
type mockAccessCodeRepo struct {
	mock.Mock
}

func (m *mockAccessCodeRepo) FindByEncrypted(ctx context.Context, encrypted string) (*model.AccessCode, error) {
	args := m.Called(ctx, encrypted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

func (m *mockAccessCodeRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAccessCodeRepo) Insert(ctx context.Context, code, encrypted string) (*model.AccessCode, error) {
	args := m.Called(ctx, code, encrypted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

func (m *mockAccessCodeRepo) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) FindByCode(ctx context.Context, code string) (*model.DeviceSession, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeviceSession), args.Error(1)
}

func (m *mockSessionStore) Upsert(ctx context.Context, code, deviceID string) (*model.DeviceSession, error) {
	args := m.Called(ctx, code, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeviceSession), args.Error(1)
}

func (m *mockSessionStore) DeleteByCode(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type authFixture struct {
	handler  *AuthHandler
	cipher   *util.Cipher
	codeRepo *mockAccessCodeRepo
	sessions *mockSessionStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cipher, err := util.NewCipher(testHexKey, testHexIV)
	require.NoError(t, err)

	codeRepo := new(mockAccessCodeRepo)
	sessions := new(mockSessionStore)
	svc := service.NewVerificationService(cipher, codeRepo, sessions)

	return &authFixture{
		handler:  NewAuthHandler(svc),
		cipher:   cipher,
		codeRepo: codeRepo,
		sessions: sessions,
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestVerifyCode_Valid(t *testing.T) {
	f := newAuthFixture(t)

	encrypted := f.cipher.Encrypt("X1")
	f.codeRepo.On("FindByEncrypted", mock.Anything, encrypted).
		Return(&model.AccessCode{Code: "X1", EncryptedCode: encrypted}, nil)
	f.sessions.On("FindByCode", mock.Anything, "X1").Return(nil, nil)
	f.sessions.On("Upsert", mock.Anything, "X1", "device-a").
		Return(&model.DeviceSession{Code: "X1", DeviceID: "device-a"}, nil)

	rec := postJSON(t, f.handler.VerifyCode, map[string]string{"code": "X1", "deviceId": "device-a"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())
}

func TestVerifyCode_UnknownCode(t *testing.T) {
	f := newAuthFixture(t)

	f.codeRepo.On("FindByEncrypted", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, nil)

	rec := postJSON(t, f.handler.VerifyCode, map[string]string{"code": "nope", "deviceId": "device-a"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":false}`, rec.Body.String())
}

func TestVerifyCode_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handler.VerifyCode, map[string]string{"deviceId": "device-a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, f.handler.VerifyCode, map[string]string{"code": "X1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.codeRepo.AssertNotCalled(t, "FindByEncrypted")
}

func TestVerifyCode_DeviceConflict(t *testing.T) {
	f := newAuthFixture(t)

	encrypted := f.cipher.Encrypt("X1")
	f.codeRepo.On("FindByEncrypted", mock.Anything, encrypted).
		Return(&model.AccessCode{Code: "X1", EncryptedCode: encrypted}, nil)
	f.sessions.On("FindByCode", mock.Anything, "X1").
		Return(&model.DeviceSession{Code: "X1", DeviceID: "device-a"}, nil)

	rec := postJSON(t, f.handler.VerifyCode, map[string]string{"code": "X1", "deviceId": "device-b"})

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DEVICE_CONFLICT", resp["code"])
	f.sessions.AssertNotCalled(t, "Upsert")
}

func TestVerifyCode_StoreFailure(t *testing.T) {
	f := newAuthFixture(t)

	f.codeRepo.On("FindByEncrypted", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, assert.AnError)

	rec := postJSON(t, f.handler.VerifyCode, map[string]string{"code": "X1", "deviceId": "device-a"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestLogout_Success(t *testing.T) {
	f := newAuthFixture(t)

	f.sessions.On("DeleteByCode", mock.Anything, "X1").Return(nil)

	rec := postJSON(t, f.handler.Logout, map[string]string{"code": "X1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestLogout_MissingCode(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handler.Logout, map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.sessions.AssertNotCalled(t, "DeleteByCode")
}
