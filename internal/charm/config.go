// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/juju/environschema.v1"
)

// TemplateKey is the charm setting naming the StorPool template Cinder
// volumes are created in.
const TemplateKey = "storpool_template"

var configSchema = environschema.Fields{
	TemplateKey: {
		Description: "The StorPool template to use for Cinder volumes.",
		Type:        environschema.Tstring,
	},
}

var configDefaults = schema.Defaults{
	TemplateKey: "",
}

// CharmConfig holds the validated charm settings.
type CharmConfig struct {
	Template string
}

// ParseConfig validates the settings returned by config-get. Settings
// the charm does not know about are ignored.
func ParseConfig(raw map[string]interface{}) (CharmConfig, error) {
	fields, _, err := configSchema.ValidationSchema()
	if err != nil {
		return CharmConfig{}, errors.Trace(err)
	}
	attrs := make(map[string]interface{})
	for k, v := range raw {
		if v != nil {
			attrs[k] = v
		}
	}
	coerced, err := schema.FieldMap(fields, configDefaults).Coerce(attrs, nil)
	if err != nil {
		return CharmConfig{}, errors.Annotate(err, "invalid charm config")
	}
	valid := coerced.(map[string]interface{})
	return CharmConfig{Template: valid[TemplateKey].(string)}, nil
}
