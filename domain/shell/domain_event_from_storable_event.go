package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StoredEvents to DomainEvents.
func DomainEventsFrom(storedEvents eventlog.StoredEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storedEvents))

	for _, storedEvent := range storedEvents {
		domainEvent, err := DomainEventFrom(storedEvent.StorableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its DomainEvent based on the event type.
func DomainEventFrom(storableEvent eventlog.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.AccountCreatedEventType:
		return unmarshalAccountCreated(storableEvent.PayloadJSON)

	case core.BankAccountCreatedEventType:
		return unmarshalBankAccountCreated(storableEvent.PayloadJSON)

	case core.BankAccountDepositedEventType:
		return unmarshalBankAccountDeposited(storableEvent.PayloadJSON)

	case core.BankAccountWithdrawnEventType:
		return unmarshalBankAccountWithdrawn(storableEvent.PayloadJSON)

	case core.InternalMoneyTransferredEventType:
		return unmarshalInternalMoneyTransferred(storableEvent.PayloadJSON)

	case core.TransferWithdrawPerformedEventType:
		return unmarshalTransferWithdrawPerformed(storableEvent.PayloadJSON)

	case core.TransferWithdrawRejectedEventType:
		return unmarshalTransferWithdrawRejected(storableEvent.PayloadJSON)

	case core.TransferDepositPerformedEventType:
		return unmarshalTransferDepositPerformed(storableEvent.PayloadJSON)

	case core.TransferDepositRejectedEventType:
		return unmarshalTransferDepositRejected(storableEvent.PayloadJSON)

	case core.TransferWithdrawRolledBackEventType:
		return unmarshalTransferWithdrawRolledBack(storableEvent.PayloadJSON)

	case core.TransferDepositRolledBackEventType:
		return unmarshalTransferDepositRolledBack(storableEvent.PayloadJSON)

	case core.TransferInitiatedEventType:
		return unmarshalTransferInitiated(storableEvent.PayloadJSON)

	case core.TransferSucceededEventType:
		return unmarshalTransferSucceeded(storableEvent.PayloadJSON)

	case core.TransferFailedEventType:
		return unmarshalTransferFailed(storableEvent.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

func unmarshalAccountCreated(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.AccountCreated)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalBankAccountCreated(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.BankAccountCreated)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalBankAccountDeposited(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.BankAccountDeposited)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalBankAccountWithdrawn(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.BankAccountWithdrawn)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalInternalMoneyTransferred(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.InternalMoneyTransferred)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferWithdrawPerformed(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferWithdrawPerformed)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferWithdrawRejected(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferWithdrawRejected)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferDepositPerformed(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferDepositPerformed)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferDepositRejected(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferDepositRejected)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferWithdrawRolledBack(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferWithdrawRolledBack)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferDepositRolledBack(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferDepositRolledBack)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferInitiated(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferInitiated)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferSucceeded(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferSucceeded)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}

func unmarshalTransferFailed(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.TransferFailed)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
