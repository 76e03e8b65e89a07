package hcloud

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// isResourceLocked reports errors worth retrying: an action is still
// running on the resource or it changed during the request.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,
		hcloud.ErrorCodeConflict,
		hcloud.ErrorCodeResourceLocked,
		hcloud.ErrorCodeResourceUnavailable,
	)
}

// isInvalidParameter reports errors a retry cannot fix.
func isInvalidParameter(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeNotFound,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeInvalidServerType,
		hcloud.ErrorCodeUniquenessError,
	)
}

func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}
	var hcloudErr hcloud.Error
	if !errors.As(err, &hcloudErr) {
		return false
	}
	for _, code := range codes {
		if hcloudErr.Code == code {
			return true
		}
	}
	return false
}

// IsResourceInUse checks if a resource cannot be deleted yet because something still uses it.
func IsResourceInUse(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeResourceInUse)
}
