package graph

import (
	"github.com/graph-gophers/graphql-go"
)

// Schema is the complete externally callable contract.
const Schema = `
	type Query {
		myTaskLists: [TaskList!]!
		getTaskList(id: ID!): TaskList
		getCourses: [Course]!
		getCoursesByCode(courseCode: String!): [Course]!
		getCoursesByDivisionCodes(divisionCodes: [String!]): [Course]!
	}

	type Mutation {
		signUp(input: SignUpInput!): AuthUser!
		signIn(input: SignInInput!): AuthUser!

		createTaskList(title: String!): TaskList!
		updateTaskList(id: ID!, title: String!): TaskList!
		deleteTaskList(id: ID!): Boolean
		addUserToTaskList(taskListId: ID!, userId: ID!): TaskList!

		createToDo(content: String!, taskListId: ID!): ToDo!
		updateToDo(id: ID!, content: String, isCompleted: Boolean): ToDo!
		deleteToDo(id: ID!): Boolean
	}

	input SignUpInput {
		email: String!
		password: String!
		name: String!
		avatar: String
	}

	input SignInInput {
		email: String!
		password: String!
	}

	type Course {
		id: ID!
		divisionCode: String!
		courseCode: String!
		courseTitle: String!
		credits: Float!
		creditTypeCode: String!
	}

	type AuthUser {
		user: User!
		token: String!
	}

	type User {
		id: ID!
		name: String!
		email: String!
		avatar: String
	}

	type TaskList {
		id: ID!
		createdAt: String!
		title: String!
		progress: Float!

		users: [User!]!
		todos: [ToDo!]!
	}

	type ToDo {
		id: ID!
		content: String!
		isCompleted: Boolean!

		taskList: TaskList!
	}
`

// NewSchema parses the schema against the resolver, validating every
// operation and field at startup.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r)
}
