package domain

// CheckQuota decides whether a requested quantity may be admitted against
// a product's purchase limit. A limit of zero (or below) never rejects.
// Historical quantity is what the user already committed in other orders;
// in-flight quantity is what the same cart or in-progress edit already
// reserves for this product.
func CheckQuota(productID string, historical, inFlight, requested, limit int) error {
	if limit <= 0 {
		return nil
	}
	if historical+inFlight+requested > limit {
		return &QuotaExceededError{
			ProductID:  productID,
			Historical: historical,
			InFlight:   inFlight,
			Requested:  requested,
			Limit:      limit,
		}
	}
	return nil
}
