package backup

import (
	"context"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/logger"
)

type CredentialsGetter interface {
	Get(kind domain.BackupProviderKind) (domain.BackupCredentials, error)
}

// CredentialsOperator manages stored backup credentials. Saving is gated by
// a live verification against the provider.
type CredentialsOperator struct {
	repository domain.BackupCredentialsRepository
	builder    ProviderBuilder
}

func NewCredentialsOperator(repository domain.BackupCredentialsRepository, builder ProviderBuilder) *CredentialsOperator {
	return &CredentialsOperator{
		repository: repository,
		builder:    builder,
	}
}

func credentialsNotFound(kind domain.BackupProviderKind) error {
	return domain.NotFoundError(kind.DisplayName() + " backup credentials")
}

func (o *CredentialsOperator) Get(kind domain.BackupProviderKind) (domain.BackupCredentials, error) {
	record, err := o.repository.FindBackupCredentials(kind)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, credentialsNotFound(kind)
	}

	return domain.DecodeBackupCredentials(*record)
}

func (o *CredentialsOperator) List() ([]domain.BackupCredentials, error) {
	records, err := o.repository.ListBackupCredentials()
	if err != nil {
		return nil, err
	}

	list := make([]domain.BackupCredentials, 0, len(records))
	for _, record := range records {
		creds, err := domain.DecodeBackupCredentials(record)
		if err != nil {
			return nil, err
		}
		list = append(list, creds)
	}
	return list, nil
}

func (o *CredentialsOperator) Save(ctx context.Context, creds domain.BackupCredentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	provider, err := o.builder.BuildBackupProvider(creds)
	if err != nil {
		return err
	}

	verifier, err := capability[domain.BackupCredentialsVerifier](provider, "verify credentials")
	if err != nil {
		return err
	}

	ok, err := verifier.VerifyBackupCredentials(ctx)
	if err != nil {
		logger.LogError("VERIFY_CREDENTIALS", string(creds.Kind()), err)
		return err
	}
	if !ok {
		err := domain.VerificationError(creds.Kind().DisplayName() + " backup credentials were rejected")
		logger.LogError("VERIFY_CREDENTIALS", string(creds.Kind()), err)
		return err
	}

	record, err := domain.EncodeBackupCredentials(creds)
	if err != nil {
		return err
	}

	existing, err := o.repository.FindBackupCredentials(creds.Kind())
	if err != nil {
		return err
	}
	if existing == nil {
		logger.Log("Saving new %s backup credentials", creds.Kind().DisplayName())
		return o.repository.InsertBackupCredentials(record)
	}

	logger.Log("Replacing %s backup credentials", creds.Kind().DisplayName())
	return o.repository.UpdateBackupCredentials(record)
}

func (o *CredentialsOperator) Delete(kind domain.BackupProviderKind) error {
	record, err := o.repository.FindBackupCredentials(kind)
	if err != nil {
		return err
	}
	if record == nil {
		return credentialsNotFound(kind)
	}

	logger.Log("Deleting %s backup credentials", kind.DisplayName())
	return o.repository.DeleteBackupCredentials(kind)
}
