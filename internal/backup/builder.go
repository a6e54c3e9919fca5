package backup

import (
	"errors"
	"fmt"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/stsh89/hermione/internal/provider/notion"
)

var ErrUnsupportedCapability = errors.New("capability not supported by provider")

type ProviderBuilder interface {
	BuildBackupProvider(creds domain.BackupCredentials) (domain.BackupProvider, error)
}

// Builder turns stored credentials into a provider client. It performs no
// network I/O.
type Builder struct {
	notionOptions []notion.Option
}

func NewBuilder(notionOptions ...notion.Option) *Builder {
	return &Builder{
		notionOptions: notionOptions,
	}
}

func (b *Builder) BuildBackupProvider(creds domain.BackupCredentials) (domain.BackupProvider, error) {
	switch c := creds.(type) {
	case domain.NotionBackupCredentials:
		return notion.NewProvider(c, b.notionOptions...), nil
	case *domain.NotionBackupCredentials:
		return notion.NewProvider(*c, b.notionOptions...), nil
	default:
		return nil, domain.InvalidArgumentError(fmt.Sprintf("unsupported backup credentials %T", creds))
	}
}

func capability[T any](provider domain.BackupProvider, action string) (T, error) {
	c, ok := provider.(T)
	if !ok {
		var zero T
		return zero, domain.BackupError(
			fmt.Sprintf("%s provider cannot %s", provider.Kind().DisplayName(), action),
			ErrUnsupportedCapability,
		)
	}
	return c, nil
}
