package model

const GlobalSettingsID = "global"

type Settings struct {
	AutoApprove bool `json:"autoApprove" bson:"autoApprove"`
}
