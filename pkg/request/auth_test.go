package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]interface{}{
		"email":      "choco@blitz.test",
		"password":   "***",
		"rememberMe": true,
	}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "choco@blitz.test", Password: "secret", RememberMe: true}

	actual, _ := json.Marshal(loginReq)

	assert.JSONEq(t, string(expected), string(actual))
	assert.EqualValues(t, "secret", loginReq.Password)
}

func TestRegisterMasksPasswords(t *testing.T) {
	registerReq := Register{
		Name:            "Choco",
		Email:           "choco@blitz.test",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		AgreeTerms:      true,
	}

	actual, _ := json.Marshal(registerReq)

	decoded := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(actual, &decoded))
	assert.EqualValues(t, "***", decoded["password"])
	assert.EqualValues(t, "***", decoded["confirmPassword"])
	assert.EqualValues(t, "longenough", registerReq.Password)
}
