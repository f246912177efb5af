// Package stack renders the SAM template that deploys the greeter, the rain
// classifier and the sentence table.
package stack

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"rainwatch/internal/inference"
	"rainwatch/internal/records"
)

// Logical resource names.
const (
	TableResource      = "SentenceTable"
	GreeterResource    = "GreeterFunction"
	ClassifierResource = "ClassifierFunction"
	QueueResource      = "OutcomeQueue"
)

// Template is a CloudFormation template with the SAM transform.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Transform                string               `json:"Transform" yaml:"Transform"`
	Description              string               `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Globals                  map[string]any       `json:"Globals,omitempty" yaml:"Globals,omitempty"`
	Resources                map[string]Resource  `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// Parameter is a template parameter.
type Parameter struct {
	Type          string   `json:"Type" yaml:"Type"`
	Default       string   `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues []string `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
	Description   string   `json:"Description,omitempty" yaml:"Description,omitempty"`
}

// Resource is one entry of the Resources section.
type Resource struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
}

// Output is one entry of the Outputs section.
type Output struct {
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any    `json:"Value" yaml:"Value"`
}

// Options selects optional parts of the stack.
type Options struct {
	// Architecture is "arm64" or "x86_64". Empty means arm64.
	Architecture string
	// BedrockRegion is passed to the classifier. Empty means us-east-1.
	BedrockRegion string
	// WithOutcomeQueue adds an SQS queue and wires OUTCOME_QUEUE_URL.
	WithOutcomeQueue bool
	// MetricNamespace is granted to cloudwatch:PutMetricData. Empty means RainWatch.
	MetricNamespace string
}

func ref(name string) map[string]any { return map[string]any{"Ref": name} }

func getAtt(name, attr string) map[string]any {
	return map[string]any{"Fn::GetAtt": []string{name, attr}}
}

func sub(s string) map[string]any { return map[string]any{"Fn::Sub": s} }

// Build assembles the template.
func Build(opts Options) (*Template, error) {
	arch := opts.Architecture
	if arch == "" {
		arch = "arm64"
	}
	if arch != "arm64" && arch != "x86_64" {
		return nil, fmt.Errorf("stack: unsupported architecture %q", arch)
	}
	region := opts.BedrockRegion
	if region == "" {
		region = "us-east-1"
	}
	namespace := opts.MetricNamespace
	if namespace == "" {
		namespace = "RainWatch"
	}

	t := &Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Transform:                "AWS::Serverless-2016-10-31",
		Description:              "RainWatch: greeter and rain classifier functions with their sentence table",
		Parameters: map[string]Parameter{
			"AppEnv": {
				Type:          "String",
				Default:       "dev",
				AllowedValues: []string{"dev", "staging", "prod"},
				Description:   "Deployment environment passed to the functions as APP_ENV",
			},
		},
		Globals: map[string]any{
			"Function": map[string]any{
				"Runtime":       "provided.al2023",
				"Handler":       "bootstrap",
				"Architectures": []string{arch},
				"MemorySize":    128,
				"Timeout":       30,
				"Environment": map[string]any{
					"Variables": map[string]any{"APP_ENV": ref("AppEnv")},
				},
			},
		},
		Resources: map[string]Resource{},
		Outputs:   map[string]Output{},
	}

	t.Resources[TableResource] = Resource{
		Type: "AWS::DynamoDB::Table",
		Properties: map[string]any{
			"BillingMode": "PAY_PER_REQUEST",
			"AttributeDefinitions": []map[string]string{
				{"AttributeName": records.AttrDate, "AttributeType": "S"},
				{"AttributeName": records.AttrCreatedAt, "AttributeType": "S"},
			},
			"KeySchema": []map[string]string{
				{"AttributeName": records.AttrDate, "KeyType": "HASH"},
				{"AttributeName": records.AttrCreatedAt, "KeyType": "RANGE"},
			},
		},
	}

	t.Resources[GreeterResource] = Resource{
		Type: "AWS::Serverless::Function",
		Properties: map[string]any{
			"CodeUri": "bin/greeter/",
		},
	}

	classifierEnv := map[string]any{
		"DYNAMODB_TABLE_NAME": ref(TableResource),
		"BEDROCK_REGION":      region,
		"METRIC_NAMESPACE":    namespace,
	}
	policies := []any{
		map[string]any{"DynamoDBReadPolicy": map[string]any{"TableName": ref(TableResource)}},
		map[string]any{"Statement": []map[string]any{
			{
				"Effect":   "Allow",
				"Action":   []string{"bedrock:InvokeModel"},
				"Resource": sub("arn:${AWS::Partition}:bedrock:" + region + "::foundation-model/" + inference.ModelID),
			},
			{
				"Effect":    "Allow",
				"Action":    []string{"cloudwatch:PutMetricData"},
				"Resource":  "*",
				"Condition": map[string]any{"StringEquals": map[string]string{"cloudwatch:namespace": namespace}},
			},
		}},
	}

	if opts.WithOutcomeQueue {
		t.Resources[QueueResource] = Resource{
			Type:       "AWS::SQS::Queue",
			Properties: map[string]any{"MessageRetentionPeriod": 345600},
		}
		classifierEnv["OUTCOME_QUEUE_URL"] = ref(QueueResource)
		policies = append(policies, map[string]any{
			"SQSSendMessagePolicy": map[string]any{"QueueName": getAtt(QueueResource, "QueueName")},
		})
		t.Outputs["OutcomeQueueUrl"] = Output{Description: "Queue receiving classification outcomes", Value: ref(QueueResource)}
	}

	t.Resources[ClassifierResource] = Resource{
		Type: "AWS::Serverless::Function",
		Properties: map[string]any{
			"CodeUri":     "bin/classifier/",
			"Environment": map[string]any{"Variables": classifierEnv},
			"Policies":    policies,
		},
	}

	t.Outputs["GreeterFunctionArn"] = Output{Description: "Greeter function ARN", Value: getAtt(GreeterResource, "Arn")}
	t.Outputs["ClassifierFunctionArn"] = Output{Description: "Rain classifier function ARN", Value: getAtt(ClassifierResource, "Arn")}
	t.Outputs["SentenceTableName"] = Output{Description: "Table holding dated sentences", Value: ref(TableResource)}

	return t, nil
}

// YAML serializes the template.
func (t *Template) YAML() ([]byte, error) {
	out, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("stack: yaml marshal: %w", err)
	}
	return out, nil
}

// JSON serializes the template with two-space indentation.
func (t *Template) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("stack: json marshal: %w", err)
	}
	return out, nil
}
