package backend

// Operation names, sent as operationName and used as metric labels.
const (
	OpListFeeBuckets               = "ListFeeBuckets"
	OpCreateFeeBucket              = "CreateFeeBucket"
	OpListFeeStructures            = "ListFeeStructures"
	OpCreateFeeStructure           = "CreateFeeStructure"
	OpUpdateFeeStructure           = "UpdateFeeStructure"
	OpDeleteFeeStructure           = "DeleteFeeStructure"
	OpListGradeLevelsForSchoolType = "ListGradeLevelsForSchoolType"
	OpListGrades                   = "ListGrades"
	OpAssignFeeStructureToGrades   = "AssignFeeStructureToGrades"
	OpGenerateBulkInvoices         = "GenerateBulkInvoices"
)

const bucketFields = `id name description isActive`

const structureFields = `
    id
    name
    isActive
    createdAt
    updatedAt
    academicYear { id name }
    terms { id name }
    gradeLevels { id name code }
    items {
      id
      amount
      isMandatory
      feeBucket { id name }
    }`

const (
	listFeeBucketsQuery = `query ListFeeBuckets {
  feeBuckets { ` + bucketFields + ` }
}`

	createFeeBucketMutation = `mutation CreateFeeBucket($input: CreateFeeBucketInput!) {
  createFeeBucket(input: $input) { ` + bucketFields + ` }
}`

	listFeeStructuresQuery = `query ListFeeStructures {
  feeStructures {` + structureFields + `
  }
}`

	createFeeStructureMutation = `mutation CreateFeeStructure($input: CreateFeeStructureInput!) {
  createFeeStructure(input: $input) {` + structureFields + `
  }
}`

	updateFeeStructureMutation = `mutation UpdateFeeStructure($id: ID!, $input: UpdateFeeStructureInput!) {
  updateFeeStructure(id: $id, input: $input) {` + structureFields + `
  }
}`

	deleteFeeStructureMutation = `mutation DeleteFeeStructure($id: ID!) {
  deleteFeeStructure(id: $id)
}`

	listGradeLevelsQuery = `query ListGradeLevelsForSchoolType {
  gradeLevelsForSchoolType { id name code }
}`

	listGradesQuery = `query ListGrades {
  grades { id name section studentCount boardingType feeStructureId }
}`

	assignFeeStructureMutation = `mutation AssignFeeStructureToGrades($feeStructureId: ID!, $gradeIds: [ID!]!) {
  assignFeeStructureToGrades(feeStructureId: $feeStructureId, gradeIds: $gradeIds) {
    feeStructureId
    gradeIds
    success
    message
  }
}`

	generateBulkInvoicesMutation = `mutation GenerateBulkInvoices($input: GenerateBulkInvoicesInput!) {
  generateBulkInvoices(input: $input) {
    id
    studentId
    gradeId
    feeStructureId
    term
    totalAmount
    generateDate
    dueDate
    customMessage
    lines { bucketId name amount }
  }
}`
)
