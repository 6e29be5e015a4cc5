package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/memoryengine"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/deposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/initiatetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openbankaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/transferinternal"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/withdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/httpapi"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/bankaccountlookup"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/transferreadmodel"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memoryengine.EventLog, *bankaccountlookup.MemoryCache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := memoryengine.NewEventLog()
	transfers := transferreadmodel.NewMemoryStore()
	bankAccounts := bankaccountlookup.NewMemoryCache()

	server := httpapi.NewServer(
		openaccount.NewCommandHandler(log),
		openbankaccount.NewCommandHandler(log),
		deposit.NewCommandHandler(log),
		withdraw.NewCommandHandler(log),
		transferinternal.NewCommandHandler(log),
		initiatetransfer.NewCommandHandler(log),
		log,
		transfers,
		bankAccounts,
	)

	return server.Router(), log, bankAccounts
}

func do(t *testing.T, router *gin.Engine, method, target string) (int, map[string]any) {
	t.Helper()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(recorder, request)

	body := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, jsoniter.ConfigFastest.Unmarshal(recorder.Body.Bytes(), &body))
	}

	return recorder.Code, body
}

func Test_AccountLifecycle_OverHTTP(t *testing.T) {
	// arrange
	router, _, _ := newTestRouter(t)
	holderID := uuid.NewString()

	// act - create the account
	status, body := do(t, router, http.MethodPost, "/accounts/"+holderID)
	require.Equal(t, http.StatusOK, status)
	accountID, ok := body["accountId"].(string)
	require.True(t, ok)

	// act - open a bank account
	status, body = do(t, router, http.MethodPost, "/accounts/"+accountID+"/bankAccount")
	require.Equal(t, http.StatusOK, status)
	bankAccountID, ok := body["bankAccountId"].(string)
	require.True(t, ok)

	// act - deposit and withdraw
	status, _ = do(t, router, http.MethodPost,
		"/accounts/"+accountID+"/bankAccount/"+bankAccountID+"?type=DEPOSIT&amount=500")
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, router, http.MethodPost,
		"/accounts/"+accountID+"/bankAccount/"+bankAccountID+"?type=WITHDRAW&amount=120")
	require.Equal(t, http.StatusOK, status)

	// assert - balances visible on the account resource
	status, body = do(t, router, http.MethodGet, "/accounts/"+accountID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, holderID, body["holderId"])
	assert.Equal(t, "380", body["totalBalance"])
}

func Test_ErrorMapping(t *testing.T) {
	// arrange
	router, _, _ := newTestRouter(t)

	status, body := do(t, router, http.MethodPost, "/accounts/"+uuid.NewString())
	require.Equal(t, http.StatusOK, status)
	accountID := body["accountId"].(string)

	status, body = do(t, router, http.MethodPost, "/accounts/"+accountID+"/bankAccount")
	require.Equal(t, http.StatusOK, status)
	bankAccountID := body["bankAccountId"].(string)

	testCases := []struct {
		name           string
		method         string
		target         string
		expectedStatus int
	}{
		{
			name:           "malformed holder id",
			method:         http.MethodPost,
			target:         "/accounts/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown transaction type",
			method:         http.MethodPost,
			target:         "/accounts/" + accountID + "/bankAccount/" + bankAccountID + "?type=BURN&amount=10",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "withdrawal from empty bank account",
			method:         http.MethodPost,
			target:         "/accounts/" + accountID + "/bankAccount/" + bankAccountID + "?type=WITHDRAW&amount=10",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown account",
			method:         http.MethodGet,
			target:         "/accounts/" + uuid.NewString(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown transfer",
			method:         http.MethodGet,
			target:         "/transfers/" + uuid.NewString(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "transfer between unknown bank accounts",
			method:         http.MethodPost,
			target:         "/transfers?sourceBankAccountId=" + uuid.NewString() + "&destinationBankAccountId=" + uuid.NewString() + "&amount=10",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			status, _ := do(t, router, tc.method, tc.target)

			// assert
			assert.Equal(t, tc.expectedStatus, status)
		})
	}
}

func Test_InitiateTransfer_ResolvesAccountsFromBankAccountIDs(t *testing.T) {
	// arrange
	router, _, bankAccounts := newTestRouter(t)
	ctx := context.Background()

	_, body := do(t, router, http.MethodPost, "/accounts/"+uuid.NewString())
	sourceAccountID := body["accountId"].(string)
	_, body = do(t, router, http.MethodPost, "/accounts/"+sourceAccountID+"/bankAccount")
	sourceBankAccountID := body["bankAccountId"].(string)

	_, body = do(t, router, http.MethodPost, "/accounts/"+uuid.NewString())
	destinationAccountID := body["accountId"].(string)
	_, body = do(t, router, http.MethodPost, "/accounts/"+destinationAccountID+"/bankAccount")
	destinationBankAccountID := body["bankAccountId"].(string)

	// the lookup cache is normally fed by its projector; feed it directly here
	require.NoError(t, bankAccounts.SaveAccount(ctx, sourceAccountID, uuid.NewString()))
	require.NoError(t, bankAccounts.SaveAccount(ctx, destinationAccountID, uuid.NewString()))
	require.NoError(t, bankAccounts.SaveBankAccount(ctx, sourceBankAccountID, sourceAccountID))
	require.NoError(t, bankAccounts.SaveBankAccount(ctx, destinationBankAccountID, destinationAccountID))

	do(t, router, http.MethodPost,
		"/accounts/"+sourceAccountID+"/bankAccount/"+sourceBankAccountID+"?type=DEPOSIT&amount=500")

	// act
	status, body := do(t, router, http.MethodPost,
		"/transfers?sourceBankAccountId="+sourceBankAccountID+
			"&destinationBankAccountId="+destinationBankAccountID+"&amount=100")

	// assert
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["state"])
	assert.NotEmpty(t, body["transferId"])
}
