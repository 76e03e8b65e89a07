package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

type firewallUpdate struct {
	Rules   []hcloud.FirewallRule
	ApplyTo []hcloud.FirewallResource
}

// EnsureFirewall ensures the firewall exists with exactly rules and is
// applied to the servers selected by applyToLabelSelector.
func (c *RealClient) EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error) {
	applyTo := []hcloud.FirewallResource{{
		Type:          hcloud.FirewallResourceTypeLabelSelector,
		LabelSelector: &hcloud.FirewallResourceLabelSelector{Selector: applyToLabelSelector},
	}}

	return (&EnsureOperation[*hcloud.Firewall, hcloud.FirewallCreateOpts, firewallUpdate]{
		Name:         name,
		ResourceType: "firewall",
		Get:          c.client.Firewall.Get,
		Create:       c.createFirewall,
		Update:       c.updateFirewall,
		CreateOptsMapper: func() hcloud.FirewallCreateOpts {
			return hcloud.FirewallCreateOpts{
				Name:    name,
				Rules:   rules,
				Labels:  labels,
				ApplyTo: applyTo,
			}
		},
		UpdateOptsMapper: func(fw *hcloud.Firewall) firewallUpdate {
			update := firewallUpdate{Rules: rules}
			if !appliedToSelector(fw, applyToLabelSelector) {
				update.ApplyTo = applyTo
			}
			return update
		},
	}).Execute(ctx, c)
}

func (c *RealClient) createFirewall(ctx context.Context, opts hcloud.FirewallCreateOpts) (*CreateResult[*hcloud.Firewall], *hcloud.Response, error) {
	res, resp, err := c.client.Firewall.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.Firewall]{
		Resource: res.Firewall,
		Actions:  res.Actions,
	}, resp, nil
}

func (c *RealClient) updateFirewall(ctx context.Context, fw *hcloud.Firewall, update firewallUpdate) ([]*hcloud.Action, *hcloud.Response, error) {
	actions, resp, err := c.client.Firewall.SetRules(ctx, fw, hcloud.FirewallSetRulesOpts{Rules: update.Rules})
	if err != nil || len(update.ApplyTo) == 0 {
		return actions, resp, err
	}
	applied, resp, err := c.client.Firewall.ApplyResources(ctx, fw, update.ApplyTo)
	return append(actions, applied...), resp, err
}

func appliedToSelector(fw *hcloud.Firewall, selector string) bool {
	for _, res := range fw.AppliedTo {
		if res.Type == hcloud.FirewallResourceTypeLabelSelector && res.LabelSelector != nil && res.LabelSelector.Selector == selector {
			return true
		}
	}
	return false
}

// DeleteFirewall deletes the firewall with the given name.
func (c *RealClient) DeleteFirewall(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Firewall]{
		Name:         name,
		ResourceType: "firewall",
		Get:          c.client.Firewall.Get,
		Delete:       c.client.Firewall.Delete,
	}).Execute(ctx, c)
}
