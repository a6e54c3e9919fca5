package domain

import (
	"encoding/json"
	"fmt"
)

func EncodeBackupCredentials(creds BackupCredentials) (BackupCredentialsRecord, error) {
	secrets, err := json.Marshal(creds)
	if err != nil {
		return BackupCredentialsRecord{}, StorageError("encode backup credentials", err)
	}
	return BackupCredentialsRecord{Kind: creds.Kind(), Secrets: secrets}, nil
}

func DecodeBackupCredentials(record BackupCredentialsRecord) (BackupCredentials, error) {
	switch record.Kind {
	case BackupProviderNotion:
		var creds NotionBackupCredentials
		if err := json.Unmarshal(record.Secrets, &creds); err != nil {
			return nil, StorageError("decode Notion backup credentials", err)
		}
		return creds, nil
	default:
		return nil, StorageError(fmt.Sprintf("decode backup credentials for %q", record.Kind), fmt.Errorf("unsupported provider"))
	}
}
