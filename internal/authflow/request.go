package authflow

import (
	"github.com/google/uuid"

	"github.com/aurabank/aura/internal/validation"
)

// Kind tags the sensitive action a Request describes.
type Kind int

const (
	KindLogin Kind = iota
	KindRegister
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindRegister:
		return "register"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Request is one in-flight sensitive action. It is constructed fresh per
// user gesture and discarded once the resulting Outcome is consumed.
type Request struct {
	ID   string
	Kind Kind

	Login    LoginRequest
	Register RegisterRequest
	Transfer TransferRequest
}

type LoginRequest struct {
	Username string
	Password string
}

type RegisterRequest struct {
	Fields validation.RegisterFields
	// StepUpSecret is the device secret enrolled for future challenges.
	StepUpSecret string
}

type TransferRequest struct {
	RecipientAccount string
	AmountRaw        string
}

func NewLoginRequest(username, password string) Request {
	return Request{
		ID:    uuid.NewString(),
		Kind:  KindLogin,
		Login: LoginRequest{Username: username, Password: password},
	}
}

func NewRegisterRequest(fields validation.RegisterFields, stepUpSecret string) Request {
	return Request{
		ID:       uuid.NewString(),
		Kind:     KindRegister,
		Register: RegisterRequest{Fields: fields, StepUpSecret: stepUpSecret},
	}
}

func NewTransferRequest(recipientAccount, amountRaw string) Request {
	return Request{
		ID:       uuid.NewString(),
		Kind:     KindTransfer,
		Transfer: TransferRequest{RecipientAccount: recipientAccount, AmountRaw: amountRaw},
	}
}
